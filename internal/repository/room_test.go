package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errEntropy = errors.New("entropy exhausted")

type fakeClock struct {
	now time.Time
}

func (that *fakeClock) Now() time.Time {
	return that.now
}

// sequenceCodes returns the given codes in order, then repeats the last one.
func sequenceCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[min(i, len(codes)-1)]
		i++
		return code, nil
	}
}

func newTestRegistry(codes ...string) (*RoomRegistry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)}
	return NewRoomRegistry(sequenceCodes(codes...), clock.Now), clock
}

func TestRoomRegistry_CreateOrJoinByCode(t *testing.T) {
	t.Run("First player creates and waits", func(t *testing.T) {
		// Given: an empty registry
		registry, _ := newTestRegistry("UNUSED")
		players := newPlayers(1)

		// When: a player joins an unknown code
		result, err := registry.CreateOrJoinByCode("ROOM01", players[0])

		// Then: a room is created with the player waiting at position 1
		require.NoError(t, err)
		assert.False(t, result.Matched)
		assert.Equal(t, 1, result.Position)
		assert.Equal(t, "ROOM01", result.Room.Code)

		room, ok := registry.LookupByPlayerID("p1")
		require.True(t, ok)
		assert.Same(t, result.Room, room)
	})

	t.Run("Second player completes the room", func(t *testing.T) {
		// Given: a room with one waiting player
		registry, _ := newTestRegistry("UNUSED")
		players := newPlayers(2)
		_, err := registry.CreateOrJoinByCode("ROOM01", players[0])
		require.NoError(t, err)

		// When: a second player joins the same code
		result, err := registry.CreateOrJoinByCode("ROOM01", players[1])

		// Then: the room is matched with the joiner at position 2
		require.NoError(t, err)
		assert.True(t, result.Matched)
		assert.Equal(t, 2, result.Position)
		assert.Equal(t, []string{"p1", "p2"}, result.Room.PlayerIDs())
		assert.Equal(t, 2, registry.PlayerCount())
	})

	t.Run("Third player is rejected", func(t *testing.T) {
		// Given: a full room
		registry, _ := newTestRegistry("UNUSED")
		players := newPlayers(3)
		_, err := registry.CreateOrJoinByCode("ROOM01", players[0])
		require.NoError(t, err)
		_, err = registry.CreateOrJoinByCode("ROOM01", players[1])
		require.NoError(t, err)

		// When: a third player joins
		_, err = registry.CreateOrJoinByCode("ROOM01", players[2])

		// Then: ErrRoomFull is returned and the room is untouched
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		room, ok := registry.LookupByCode("ROOM01")
		require.True(t, ok)
		assert.Len(t, room.Players, 2)
		_, ok = registry.LookupByPlayerID("p3")
		assert.False(t, ok)
	})
}

func TestRoomRegistry_CreateQuickMatchRoom(t *testing.T) {
	t.Run("Collisions are retried", func(t *testing.T) {
		// Given: a registry whose generator first yields a taken code
		registry, _ := newTestRegistry("TAKEN1", "TAKEN1", "FRESH1")
		players := newPlayers(4)
		_, err := registry.CreateQuickMatchRoom(players[0], players[1])
		require.NoError(t, err)

		// When: another quick match room is created
		room, err := registry.CreateQuickMatchRoom(players[2], players[3])

		// Then: the next free code is used
		require.NoError(t, err)
		assert.Equal(t, "FRESH1", room.Code)
		assert.Equal(t, 2, registry.Count())
	})

	t.Run("Exhausted code space", func(t *testing.T) {
		// Given: a generator that only ever returns one code
		registry, _ := newTestRegistry("SAME01")
		players := newPlayers(4)
		_, err := registry.CreateQuickMatchRoom(players[0], players[1])
		require.NoError(t, err)

		// When: a second room is requested
		_, err = registry.CreateQuickMatchRoom(players[2], players[3])

		// Then: allocation fails
		require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	})

	t.Run("Generator failure", func(t *testing.T) {
		registry := NewRoomRegistry(func() (string, error) { return "", errEntropy }, time.Now)
		players := newPlayers(2)

		_, err := registry.CreateQuickMatchRoom(players[0], players[1])

		require.ErrorIs(t, err, errEntropy)
	})
}

func TestRoomRegistry_CreateBotRoom(t *testing.T) {
	// Given: an empty registry
	registry, _ := newTestRegistry("BOT001")
	players := newPlayers(2)

	// When: a bot room is created
	room, err := registry.CreateBotRoom(players[0], entity.HardDifficulty)

	// Then: the room is complete and nobody else can join it
	require.NoError(t, err)
	assert.True(t, room.HasBot())
	assert.True(t, room.IsComplete())

	_, err = registry.CreateOrJoinByCode("BOT001", players[1])
	require.ErrorIs(t, err, apperror.ErrRoomFull)
}

func TestRoomRegistry_Destroy(t *testing.T) {
	// Given: a registry with one room
	registry, _ := newTestRegistry("ROOM01")
	players := newPlayers(2)
	room, err := registry.CreateQuickMatchRoom(players[0], players[1])
	require.NoError(t, err)
	_, err = room.StartGame(time.Now())
	require.NoError(t, err)

	// When: the room is destroyed twice
	first := registry.Destroy("ROOM01")
	second := registry.Destroy("ROOM01")

	// Then: it is gone with its session and player index
	assert.True(t, first)
	assert.False(t, second)
	assert.Nil(t, room.Game)
	assert.Zero(t, registry.Count())
	_, ok := registry.LookupByPlayerID("p1")
	assert.False(t, ok)
}

func TestRoomRegistry_TouchAndIdleSince(t *testing.T) {
	// Given: two rooms created at the same time
	registry, clock := newTestRegistry("ROOM01", "ROOM02")
	players := newPlayers(4)
	_, err := registry.CreateQuickMatchRoom(players[0], players[1])
	require.NoError(t, err)
	_, err = registry.CreateQuickMatchRoom(players[2], players[3])
	require.NoError(t, err)
	created := clock.now

	// When: only the second room sees activity later
	clock.now = created.Add(10 * time.Minute)
	registry.Touch("ROOM02")
	registry.Touch("MISSING")

	// Then: only the first room is idle
	assert.Equal(t, []string{"ROOM01"}, registry.IdleSince(created.Add(time.Minute)))
}
