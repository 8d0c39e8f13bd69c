package repository

import (
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// QueueResult is the outcome of a quick-match request.
type QueueResult struct {
	Matched bool
	// Opponent is the player taken from the head of the queue; it is seated first.
	Opponent *entity.Player
	// Position is the 1-based place in the queue while waiting.
	Position int
}

// MatchmakingQueue is a FIFO list of players waiting for an anonymous opponent.
// It is not safe for concurrent use; the game manager serializes access.
type MatchmakingQueue struct {
	waiting []*entity.Player
}

func NewMatchmakingQueue() *MatchmakingQueue {
	return &MatchmakingQueue{}
}

// EnqueueOrPair pairs player with the oldest waiter, or appends player to the queue.
func (that *MatchmakingQueue) EnqueueOrPair(player *entity.Player) QueueResult {
	if position := that.position(player.ID); position > 0 {
		return QueueResult{Position: position}
	}

	if len(that.waiting) > 0 {
		opponent := that.waiting[0]
		that.waiting[0] = nil
		that.waiting = that.waiting[1:]

		return QueueResult{Matched: true, Opponent: opponent}
	}

	that.waiting = append(that.waiting, player)

	return QueueResult{Position: len(that.waiting)}
}

// RemoveWaiting drops playerID from the queue; it reports whether the player was waiting.
func (that *MatchmakingQueue) RemoveWaiting(playerID string) bool {
	position := that.position(playerID)
	if position == 0 {
		return false
	}

	that.waiting = append(that.waiting[:position-1], that.waiting[position:]...)

	return true
}

func (that *MatchmakingQueue) Contains(playerID string) bool {
	return that.position(playerID) > 0
}

func (that *MatchmakingQueue) Len() int {
	return len(that.waiting)
}

func (that *MatchmakingQueue) position(playerID string) int {
	for i, player := range that.waiting {
		if player.ID == playerID {
			return i + 1
		}
	}

	return 0
}
