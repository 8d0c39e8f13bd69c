package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const maxCodeAttempts = 32

var ErrCodeSpaceExhausted = errors.New("could not allocate a unique room code")

// JoinResult is the outcome of joining a room by code.
type JoinResult struct {
	Room    *entity.Room
	Matched bool
	// Position is 1 for the creator of the room and 2 for the player completing it.
	Position int
}

// RoomRegistry owns every live room, keyed by code, plus an index of players to rooms.
// It is not safe for concurrent use; the game manager serializes access.
type RoomRegistry struct {
	rooms      map[string]*entity.Room
	playerRoom map[string]string

	generateCode func() (string, error)
	now          func() time.Time
}

func NewRoomRegistry(generateCode func() (string, error), now func() time.Time) *RoomRegistry {
	return &RoomRegistry{
		rooms:        make(map[string]*entity.Room),
		playerRoom:   make(map[string]string),
		generateCode: generateCode,
		now:          now,
	}
}

// CreateOrJoinByCode creates a private room for code or completes the one that is waiting.
func (that *RoomRegistry) CreateOrJoinByCode(code string, player *entity.Player) (JoinResult, error) {
	room, ok := that.rooms[code]
	if !ok {
		room = entity.NewRoom(code, that.now(), player)
		that.add(room)

		return JoinResult{Room: room, Position: 1}, nil
	}

	if room.HasBot() || len(room.Players) >= entity.MaxHumanPlayers {
		return JoinResult{}, fmt.Errorf("%w: room %s", apperror.ErrRoomFull, code)
	}

	room.Players = append(room.Players, player)
	room.Touch(that.now())
	that.playerRoom[player.ID] = code

	return JoinResult{Room: room, Matched: true, Position: 2}, nil
}

// CreateQuickMatchRoom opens a room under a fresh code with both players seated in order.
func (that *RoomRegistry) CreateQuickMatchRoom(first, second *entity.Player) (*entity.Room, error) {
	code, err := that.freshCode()
	if err != nil {
		return nil, err
	}

	room := entity.NewRoom(code, that.now(), first, second)
	that.add(room)

	return room, nil
}

// CreateBotRoom opens a room for a single human playing against a bot.
func (that *RoomRegistry) CreateBotRoom(player *entity.Player, difficulty entity.Difficulty) (*entity.Room, error) {
	code, err := that.freshCode()
	if err != nil {
		return nil, err
	}

	room := entity.NewBotRoom(code, player, difficulty, that.now())
	that.add(room)

	return room, nil
}

func (that *RoomRegistry) LookupByCode(code string) (*entity.Room, bool) {
	room, ok := that.rooms[code]
	return room, ok
}

func (that *RoomRegistry) LookupByPlayerID(playerID string) (*entity.Room, bool) {
	code, ok := that.playerRoom[playerID]
	if !ok {
		return nil, false
	}

	return that.LookupByCode(code)
}

// Destroy removes the room together with its session and negotiation state.
func (that *RoomRegistry) Destroy(code string) bool {
	room, ok := that.rooms[code]
	if !ok {
		return false
	}

	for _, player := range room.Players {
		if that.playerRoom[player.ID] == code {
			delete(that.playerRoom, player.ID)
		}
	}

	room.Game = nil
	delete(that.rooms, code)

	return true
}

// Touch marks activity on the room; unknown codes are ignored.
func (that *RoomRegistry) Touch(code string) {
	if room, ok := that.rooms[code]; ok {
		room.Touch(that.now())
	}
}

// IdleSince lists rooms with no activity after threshold.
func (that *RoomRegistry) IdleSince(threshold time.Time) []string {
	codes := make([]string, 0)
	for code, room := range that.rooms {
		if room.LastActivity.Before(threshold) {
			codes = append(codes, code)
		}
	}

	return codes
}

func (that *RoomRegistry) Count() int {
	return len(that.rooms)
}

// PlayerCount is the number of seated humans.
func (that *RoomRegistry) PlayerCount() int {
	return len(that.playerRoom)
}

func (that *RoomRegistry) add(room *entity.Room) {
	that.rooms[room.Code] = room
	for _, player := range room.Players {
		that.playerRoom[player.ID] = room.Code
	}
}

func (that *RoomRegistry) freshCode() (string, error) {
	for range maxCodeAttempts {
		code, err := that.generateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}
