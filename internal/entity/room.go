package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const MaxHumanPlayers = 2

type RematchChoice string

const (
	ChoiceContinue RematchChoice = "continue"
	ChoiceLeave    RematchChoice = "leave"
)

func ParseRematchChoice(value string) (RematchChoice, error) {
	switch choice := RematchChoice(value); choice {
	case ChoiceContinue, ChoiceLeave:
		return choice, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownChoice, value)
	}
}

// RematchResolution is the state of a room's post-game vote.
type RematchResolution struct {
	Ready        bool
	BothContinue bool
	Leave        bool
}

// Room groups one or two humans (or one human and a bot) under a shared code.
type Room struct {
	Code    string
	Players []*Player

	// BotDifficulty is set for bot rooms and never changes afterwards.
	BotDifficulty Difficulty

	Game           *Game
	RematchChoices map[string]RematchChoice
	LastActivity   time.Time
}

func NewRoom(code string, now time.Time, players ...*Player) *Room {
	return &Room{
		Code:           code,
		Players:        players,
		RematchChoices: make(map[string]RematchChoice),
		LastActivity:   now,
	}
}

func NewBotRoom(code string, player *Player, difficulty Difficulty, now time.Time) *Room {
	room := NewRoom(code, now, player)
	room.BotDifficulty = difficulty

	return room
}

func (that *Room) HasBot() bool {
	return that.BotDifficulty != ""
}

// IsComplete reports whether the room can host a game.
func (that *Room) IsComplete() bool {
	if that.HasBot() {
		return len(that.Players) == 1
	}

	return len(that.Players) == MaxHumanPlayers
}

func (that *Room) HasPlayer(playerID string) bool {
	return that.Player(playerID) != nil
}

func (that *Room) Player(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

// PlayerIDs returns the ids of the human occupants.
func (that *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		ids = append(ids, player.ID)
	}

	return ids
}

// OpponentIDs returns the human occupants other than playerID.
func (that *Room) OpponentIDs(playerID string) []string {
	ids := make([]string, 0, 1)
	for _, player := range that.Players {
		if player.ID != playerID {
			ids = append(ids, player.ID)
		}
	}

	return ids
}

// StartGame creates a fresh session: the first seated player takes X.
func (that *Room) StartGame(now time.Time) (*Game, error) {
	if !that.IsComplete() {
		return nil, fmt.Errorf("room %s has %d players: %w", that.Code, len(that.Players), apperror.ErrGameNotFound)
	}

	second := that.secondOccupant()
	that.Game = NewGame(Human(that.Players[0].ID), second, now)
	that.clearChoices()

	return that.Game, nil
}

// ResetGame starts a rematch on the existing session.
func (that *Room) ResetGame(now time.Time) error {
	if that.Game == nil {
		return apperror.ErrGameNotFound
	}

	if err := that.Game.Reset(now); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	that.clearChoices()

	return nil
}

// DisplayName is the name shown for a seat.
func (that *Room) DisplayName(occupant Occupant) string {
	if occupant.IsBot() {
		return fmt.Sprintf("Bot (%s)", occupant.Difficulty())
	}

	if player := that.Player(occupant.PlayerID()); player != nil {
		return player.Name
	}

	return "Unknown"
}

// RecordChoice stores a player's post-game choice; the last one wins.
func (that *Room) RecordChoice(playerID string, choice RematchChoice) {
	that.RematchChoices[playerID] = choice
}

// ResolveRematch applies the negotiation rule: any leave ends it at once,
// otherwise every human has to continue. A bot always continues.
func (that *Room) ResolveRematch() RematchResolution {
	for _, choice := range that.RematchChoices {
		if choice == ChoiceLeave {
			return RematchResolution{Ready: true, Leave: true}
		}
	}

	required := MaxHumanPlayers
	if that.HasBot() {
		required = 1
	}

	if len(that.RematchChoices) < required {
		return RematchResolution{}
	}

	return RematchResolution{Ready: true, BothContinue: true}
}

func (that *Room) Touch(now time.Time) {
	that.LastActivity = now
}

func (that *Room) secondOccupant() Occupant {
	if that.HasBot() {
		return Bot(that.BotDifficulty)
	}

	return Human(that.Players[1].ID)
}

func (that *Room) clearChoices() {
	that.RematchChoices = make(map[string]RematchChoice)
}
