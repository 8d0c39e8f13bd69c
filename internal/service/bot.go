package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	centerCell = 4

	winScore = 10
)

var (
	cornerCells = []int{0, 2, 6, 8}
	edgeCells   = []int{1, 3, 5, 7}
)

type BotService interface {
	CalculateMove(difficulty entity.Difficulty, board entity.Board, symbol entity.Symbol) (int, error)
}

type botService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewBotService(rng *rand.Rand) BotService {
	return &botService{
		rng: rng,
	}
}

// CalculateMove picks a cell for symbol. The board is passed by value, so every call searches its own copy.
func (that *botService) CalculateMove(difficulty entity.Difficulty, board entity.Board, symbol entity.Symbol) (int, error) {
	if len(entity.EmptyCells(board)) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	switch difficulty {
	case entity.EasyDifficulty:
		return that.randomMove(board), nil
	case entity.MediumDifficulty:
		return that.strategicMove(board, symbol), nil
	case entity.HardDifficulty:
		return minimaxMove(board, symbol), nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}
}

func (that *botService) randomMove(board entity.Board) int {
	return that.pick(entity.EmptyCells(board))
}

// strategicMove: win, block, center, corner, edge.
func (that *botService) strategicMove(board entity.Board, symbol entity.Symbol) int {
	if cell, ok := findWinningCell(board, symbol); ok {
		return cell
	}

	if cell, ok := findWinningCell(board, symbol.Opponent()); ok {
		return cell
	}

	if board[centerCell] == entity.EmptyCell {
		return centerCell
	}

	if corners := freeOf(board, cornerCells); len(corners) > 0 {
		return that.pick(corners)
	}

	// a non-full board with center and corners taken always has a free edge
	return that.pick(freeOf(board, edgeCells))
}

func (that *botService) pick(cells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return cells[that.rng.Intn(len(cells))]
}

// findWinningCell returns the empty cell of the first line holding two of symbol.
func findWinningCell(board entity.Board, symbol entity.Symbol) (int, bool) {
	for _, combo := range entity.WinCombos {
		own, empty := 0, -1
		for _, cell := range combo {
			switch board[cell] {
			case symbol:
				own++
			case entity.EmptyCell:
				empty = cell
			}
		}

		if own == 2 && empty >= 0 {
			return empty, true
		}
	}

	return 0, false
}

func freeOf(board entity.Board, cells []int) []int {
	free := make([]int, 0, len(cells))
	for _, cell := range cells {
		if board[cell] == entity.EmptyCell {
			free = append(free, cell)
		}
	}

	return free
}

// minimaxMove returns the cell with the best score for symbol; ties go to the lowest index.
func minimaxMove(board entity.Board, symbol entity.Symbol) int {
	bestScore, bestMove := math.MinInt, -1

	for _, cell := range entity.EmptyCells(board) {
		next := board
		next[cell] = symbol

		score := minimax(next, symbol, 0, false)
		if score > bestScore {
			bestScore, bestMove = score, cell
		}
	}

	return bestMove
}

func minimax(board entity.Board, bot entity.Symbol, depth int, maximizing bool) int {
	switch outcome := entity.Evaluate(board); outcome.State {
	case entity.StateWon:
		if outcome.Winner == bot {
			return winScore - depth
		}
		return depth - winScore
	case entity.StateDraw:
		return 0
	}

	mover := bot
	best := math.MinInt
	if !maximizing {
		mover = bot.Opponent()
		best = math.MaxInt
	}

	for _, cell := range entity.EmptyCells(board) {
		next := board
		next[cell] = mover

		score := minimax(next, bot, depth+1, !maximizing)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
