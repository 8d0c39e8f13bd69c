package service

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.SymbolX
	o = entity.SymbolO
	e = entity.EmptyCell
)

func newTestBot() BotService {
	return NewBotService(rand.New(rand.NewSource(42))) //nolint: gosec // deterministic test source
}

func TestBotService_Easy(t *testing.T) {
	t.Run("Always picks an empty cell", func(t *testing.T) {
		// Given: a board with a single free cell among many tries
		bot := newTestBot()
		board := entity.Board{x, o, x, x, o, o, o, e, x}

		for range 20 {
			// When: the easy bot moves
			cell, err := bot.CalculateMove(entity.EasyDifficulty, board, o)

			// Then: it takes the only free cell
			require.NoError(t, err)
			assert.Equal(t, 7, cell)
		}
	})

	t.Run("Full board has no moves", func(t *testing.T) {
		bot := newTestBot()
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		_, err := bot.CalculateMove(entity.EasyDifficulty, board, o)

		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}

func TestBotService_Medium(t *testing.T) {
	bot := newTestBot()

	t.Run("Completes its own line first", func(t *testing.T) {
		// Given: O can win on 5 and X threatens on 2
		board := entity.Board{x, x, e, o, o, e, x, e, e}

		// When: the medium bot plays O
		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		// Then: it wins instead of blocking
		require.NoError(t, err)
		assert.Equal(t, 5, cell)
	})

	t.Run("Winning cell zero is taken", func(t *testing.T) {
		board := entity.Board{e, o, o, x, x, e, x, e, e}

		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		require.NoError(t, err)
		assert.Equal(t, 0, cell)
	})

	t.Run("Blocks the opponent", func(t *testing.T) {
		// Given: X threatens the top row
		board := entity.Board{x, x, e, e, o, e, e, e, e}

		// When: the medium bot plays O
		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		// Then: it blocks on 2
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Takes the center", func(t *testing.T) {
		board := entity.Board{x, e, e, e, e, e, e, e, e}

		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		require.NoError(t, err)
		assert.Equal(t, 4, cell)
	})

	t.Run("Takes a corner when the center is gone", func(t *testing.T) {
		board := entity.Board{e, e, e, e, x, e, e, e, e}

		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		require.NoError(t, err)
		assert.Contains(t, []int{0, 2, 6, 8}, cell)
	})

	t.Run("Falls back to an edge", func(t *testing.T) {
		// Given: center and corners taken without any open line
		board := entity.Board{o, x, o, e, x, e, x, o, x}

		// When: the medium bot plays O
		cell, err := bot.CalculateMove(entity.MediumDifficulty, board, o)

		// Then: it takes one of the free edges
		require.NoError(t, err)
		assert.Contains(t, []int{3, 5}, cell)
	})
}

func TestBotService_Hard(t *testing.T) {
	bot := newTestBot()

	t.Run("Takes an immediate win", func(t *testing.T) {
		board := entity.Board{o, o, e, x, x, e, x, e, e}

		cell, err := bot.CalculateMove(entity.HardDifficulty, board, o)

		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Blocks a threat", func(t *testing.T) {
		board := entity.Board{x, x, e, e, o, e, e, e, e}

		cell, err := bot.CalculateMove(entity.HardDifficulty, board, o)

		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Opening ties go to the lowest index", func(t *testing.T) {
		// Every opening move draws with perfect play, so the first cell wins the tie
		cell, err := bot.CalculateMove(entity.HardDifficulty, entity.NewBoard(), x)

		require.NoError(t, err)
		assert.Equal(t, 0, cell)
	})

	t.Run("Never loses as O", func(t *testing.T) {
		assertHardBotNeverLoses(t, bot, o)
	})

	t.Run("Never loses as X", func(t *testing.T) {
		assertHardBotNeverLoses(t, bot, x)
	})
}

// assertHardBotNeverLoses plays every possible human line against the hard bot.
func assertHardBotNeverLoses(t *testing.T, bot BotService, botSymbol entity.Symbol) {
	t.Helper()

	var explore func(board entity.Board, turn entity.Symbol)
	explore = func(board entity.Board, turn entity.Symbol) {
		outcome := entity.Evaluate(board)
		if outcome.State != entity.StatePlaying {
			if outcome.State == entity.StateWon {
				require.Equal(t, botSymbol, outcome.Winner, "human won on board %v", board)
			}
			return
		}

		if turn == botSymbol {
			cell, err := bot.CalculateMove(entity.HardDifficulty, board, botSymbol)
			require.NoError(t, err)
			require.True(t, entity.IsLegalMove(board, cell))

			board[cell] = botSymbol
			explore(board, turn.Opponent())
			return
		}

		for _, cell := range entity.EmptyCells(board) {
			next := board
			next[cell] = turn
			explore(next, turn.Opponent())
		}
	}

	explore(entity.NewBoard(), x)
}
