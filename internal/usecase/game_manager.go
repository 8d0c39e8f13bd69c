package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
)

type matchmakingQueue interface {
	EnqueueOrPair(player *entity.Player) repository.QueueResult
	RemoveWaiting(playerID string) bool
	Contains(playerID string) bool
	Len() int
}

type roomRegistry interface {
	CreateOrJoinByCode(code string, player *entity.Player) (repository.JoinResult, error)
	CreateQuickMatchRoom(first, second *entity.Player) (*entity.Room, error)
	CreateBotRoom(player *entity.Player, difficulty entity.Difficulty) (*entity.Room, error)
	LookupByCode(code string) (*entity.Room, bool)
	LookupByPlayerID(playerID string) (*entity.Room, bool)
	Destroy(code string) bool
	Touch(code string)
	IdleSince(threshold time.Time) []string
	Count() int
	PlayerCount() int
}

type botService interface {
	CalculateMove(difficulty entity.Difficulty, board entity.Board, symbol entity.Symbol) (int, error)
}

type eventHandler func(ctx context.Context, event Event) ([]Envelope, error)

// GameManager is the single entry point of the engine. Every event and sweep runs under mu,
// so the queue and the registry never see concurrent access.
type GameManager struct {
	logger *slog.Logger

	mu       sync.Mutex
	queue    matchmakingQueue
	registry roomRegistry
	bot      botService
	now      func() time.Time

	handlers map[EventKind]eventHandler
}

func NewGameManager(logger *slog.Logger, queue matchmakingQueue, registry roomRegistry, bot botService, now func() time.Time) *GameManager {
	manager := &GameManager{
		logger: logger.With("component", "game_manager"),

		queue:    queue,
		registry: registry,
		bot:      bot,
		now:      now,
	}

	manager.handlers = map[EventKind]eventHandler{
		EventQuickMatch:     manager.quickMatch,
		EventJoinRoom:       manager.joinRoom,
		EventPlayWithBot:    manager.playWithBot,
		EventMakeMove:       manager.makeMove,
		EventRematchRequest: manager.rematchRequest,
		EventDisconnect:     manager.disconnect,
	}

	return manager
}

// Handle applies one inbound event and returns the messages to deliver.
// A rejected event returns an error and leaves every registry untouched.
func (that *GameManager) Handle(ctx context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "Handle", "event", event.Kind, "player", event.PlayerID)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("event dropped: %w", err)
	}

	handler, ok := that.handlers[event.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownEvent, event.Kind)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	envelopes, err := handler(ctx, event)
	if err != nil {
		log.Warn("event rejected", "room", event.RoomCode, "error", err)
		return nil, err
	}

	return envelopes, nil
}

// SweepIdle closes every room without activity since cutoff, in code order.
func (that *GameManager) SweepIdle(cutoff time.Time) []Envelope {
	log := that.logger.With("method", "SweepIdle")

	that.mu.Lock()
	defer that.mu.Unlock()

	codes := that.registry.IdleSince(cutoff)
	slices.Sort(codes)

	envelopes := make([]Envelope, 0, len(codes))
	for _, code := range codes {
		room, ok := that.registry.LookupByCode(code)
		if !ok {
			continue
		}

		if ids := room.PlayerIDs(); len(ids) > 0 {
			envelopes = append(envelopes, newEnvelope(ids, MessageOpponentLeft, NoticePayload{Message: inactivityText}))
		}

		that.registry.Destroy(code)
		log.Info("idle room closed", "room", code)
	}

	return envelopes
}

func (that *GameManager) Stats() entity.Stats {
	that.mu.Lock()
	defer that.mu.Unlock()

	waiting := that.queue.Len()

	return entity.Stats{
		WaitingCount:    waiting,
		ActiveRoomCount: that.registry.Count(),
		TotalPlayers:    waiting + that.registry.PlayerCount(),
		ReportedAt:      that.now(),
	}
}

func (that *GameManager) quickMatch(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "quickMatch", "player", event.PlayerID)

	player, err := that.newPlayer(event)
	if err != nil {
		return nil, err
	}

	result := that.queue.EnqueueOrPair(player)
	if !result.Matched {
		log.Info("waiting for a match", "position", result.Position)

		return []Envelope{
			newEnvelope([]string{player.ID}, MessageWaitingForMatch, WaitingPayload{Message: waitingForMatchText, Position: result.Position}),
		}, nil
	}

	room, err := that.registry.CreateQuickMatchRoom(result.Opponent, player)
	if err != nil {
		// the queue holds at most one player, so this restores its previous state
		that.queue.EnqueueOrPair(result.Opponent)

		return nil, fmt.Errorf("failed to create quick match room: %w", err)
	}

	log.Info("players matched", "room", room.Code, "opponent", result.Opponent.ID)

	return that.startGame(room)
}

func (that *GameManager) joinRoom(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "joinRoom", "player", event.PlayerID)

	code, err := pkg.NormalizeRoomCode(event.RoomCode)
	if err != nil {
		return nil, err
	}

	player, err := that.newPlayer(event)
	if err != nil {
		return nil, err
	}

	result, err := that.registry.CreateOrJoinByCode(code, player)
	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	if !result.Matched {
		log.Info("waiting in room", "room", code)

		return []Envelope{
			newEnvelope([]string{player.ID}, MessageWaitingInRoom, WaitingPayload{Message: waitingInRoomText, RoomCode: code}),
		}, nil
	}

	log.Info("room completed", "room", code)

	return that.startGame(result.Room)
}

func (that *GameManager) playWithBot(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "playWithBot", "player", event.PlayerID)

	difficulty, err := entity.ParseDifficulty(event.Difficulty)
	if err != nil {
		return nil, err
	}

	player, err := that.newPlayer(event)
	if err != nil {
		return nil, err
	}

	room, err := that.registry.CreateBotRoom(player, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot room: %w", err)
	}

	log.Info("bot room created", "room", room.Code, "difficulty", difficulty)

	return that.startGame(room)
}

func (that *GameManager) makeMove(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "makeMove", "player", event.PlayerID)

	room, err := that.lookupGameRoom(event.RoomCode)
	if err != nil {
		return nil, err
	}

	result, err := room.Game.ApplyMove(entity.Human(event.PlayerID), event.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move in room %s: %w", room.Code, err)
	}

	that.registry.Touch(room.Code)
	log.Info("move applied", "room", room.Code, "position", event.Position)

	envelopes := []Envelope{that.moveEnvelope(room, result)}

	return append(envelopes, that.playBotTurn(room)...), nil
}

func (that *GameManager) rematchRequest(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "rematchRequest", "player", event.PlayerID)

	code, err := pkg.NormalizeRoomCode(event.RoomCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrRoomNotFound, err)
	}

	choice, err := entity.ParseRematchChoice(event.Choice)
	if err != nil {
		return nil, err
	}

	room, ok := that.registry.LookupByCode(code)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	if !room.HasPlayer(event.PlayerID) {
		return nil, apperror.ErrNotAParticipant
	}

	if room.Game == nil {
		return nil, apperror.ErrGameNotFound
	}

	if !room.Game.IsFinished() {
		return nil, apperror.ErrGameNotFinished
	}

	room.RecordChoice(event.PlayerID, choice)
	that.registry.Touch(code)

	resolution := room.ResolveRematch()
	switch {
	case resolution.Leave:
		envelopes := that.notifyOpponents(room, event.PlayerID, opponentLeftText)
		that.registry.Destroy(code)
		log.Info("room closed after rematch leave", "room", code)

		return envelopes, nil
	case !resolution.Ready:
		log.Info("waiting for rematch decision", "room", code)

		opponents := room.OpponentIDs(event.PlayerID)
		if len(opponents) == 0 {
			return nil, nil
		}

		return []Envelope{
			newEnvelope(opponents, MessageOpponentWaitingRematch, NoticePayload{Message: waitingRematchText}),
		}, nil
	default:
		if err = room.ResetGame(that.now()); err != nil {
			return nil, fmt.Errorf("failed to reset room %s: %w", code, err)
		}

		log.Info("rematch started", "room", code)

		envelopes := that.gameStartEnvelopes(room)

		return append(envelopes, that.playBotTurn(room)...), nil
	}
}

func (that *GameManager) disconnect(_ context.Context, event Event) ([]Envelope, error) {
	log := that.logger.With("method", "disconnect", "player", event.PlayerID)

	if that.queue.RemoveWaiting(event.PlayerID) {
		log.Info("removed from matchmaking queue")
	}

	room, ok := that.registry.LookupByPlayerID(event.PlayerID)
	if !ok {
		return nil, nil
	}

	envelopes := that.notifyOpponents(room, event.PlayerID, disconnectedText)
	that.registry.Destroy(room.Code)
	log.Info("room closed after disconnect", "room", room.Code)

	return envelopes, nil
}

// newPlayer validates the name and makes sure the player is neither waiting nor seated.
func (that *GameManager) newPlayer(event Event) (*entity.Player, error) {
	name, err := pkg.SanitizePlayerName(event.PlayerName)
	if err != nil {
		return nil, err
	}

	if that.queue.Contains(event.PlayerID) {
		return nil, fmt.Errorf("%w: waiting for a match", apperror.ErrAlreadyInGame)
	}

	if room, ok := that.registry.LookupByPlayerID(event.PlayerID); ok {
		return nil, fmt.Errorf("%w: seated in room %s", apperror.ErrAlreadyInGame, room.Code)
	}

	return &entity.Player{ID: event.PlayerID, Name: name}, nil
}

// lookupGameRoom resolves a room that currently hosts a session.
func (that *GameManager) lookupGameRoom(rawCode string) (*entity.Room, error) {
	code, err := pkg.NormalizeRoomCode(rawCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrGameNotFound, err)
	}

	room, ok := that.registry.LookupByCode(code)
	if !ok || room.Game == nil {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrGameNotFound, code)
	}

	return room, nil
}

func (that *GameManager) startGame(room *entity.Room) ([]Envelope, error) {
	if _, err := room.StartGame(that.now()); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return that.gameStartEnvelopes(room), nil
}

// gameStartEnvelopes announces the session to the room, then tells every human its symbol.
func (that *GameManager) gameStartEnvelopes(room *entity.Room) []Envelope {
	game := room.Game

	envelopes := []Envelope{
		newEnvelope(room.PlayerIDs(), MessageGameStart, GameStartPayload{
			RoomCode: room.Code,
			Players: SeatNames{
				X: room.DisplayName(game.X),
				O: room.DisplayName(game.O),
			},
			Board:       game.Board,
			CurrentTurn: game.CurrentTurn,
		}),
	}

	for _, id := range room.PlayerIDs() {
		symbol, ok := game.SymbolOf(entity.Human(id))
		if !ok {
			continue
		}

		envelopes = append(envelopes, newEnvelope([]string{id}, MessageYourSymbol, SymbolPayload{Symbol: symbol}))
	}

	return envelopes
}

// moveEnvelope reports an accepted move with the board as it was right after it.
func (that *GameManager) moveEnvelope(room *entity.Room, result entity.MoveResult) Envelope {
	if !result.IsTerminal() {
		return newEnvelope(room.PlayerIDs(), MessageBoardUpdate, BoardUpdatePayload{
			Board:       result.Board,
			CurrentTurn: result.Symbol.Opponent(),
			LastMove:    LastMove{Position: result.Position, Player: result.Symbol},
		})
	}

	winner := drawWinner
	if result.Outcome.State == entity.StateWon {
		winner = room.DisplayName(room.Game.Holder(result.Outcome.Winner))
	}

	return newEnvelope(room.PlayerIDs(), MessageGameOver, GameOverPayload{Winner: winner, Board: result.Board})
}

// playBotTurn lets the bot move when it holds the current turn of a running session.
// The human move is already applied at this point, so a bot failure is logged, not returned.
func (that *GameManager) playBotTurn(room *entity.Room) []Envelope {
	log := that.logger.With("method", "playBotTurn", "room", room.Code)

	game := room.Game
	if !room.HasBot() || game == nil || game.IsFinished() {
		return nil
	}

	bot := game.Holder(game.CurrentTurn)
	if !bot.IsBot() {
		return nil
	}

	position, err := that.bot.CalculateMove(bot.Difficulty(), game.Board, game.CurrentTurn)
	if err != nil {
		log.Error("failed to calculate bot move", "error", err)
		return nil
	}

	result, err := game.ApplyMove(bot, position)
	if err != nil {
		log.Error("failed to apply bot move", "position", position, "error", err)
		return nil
	}

	return []Envelope{that.moveEnvelope(room, result)}
}

func (that *GameManager) notifyOpponents(room *entity.Room, playerID, text string) []Envelope {
	opponents := room.OpponentIDs(playerID)
	if len(opponents) == 0 {
		return nil
	}

	return []Envelope{newEnvelope(opponents, MessageOpponentLeft, NoticePayload{Message: text})}
}
