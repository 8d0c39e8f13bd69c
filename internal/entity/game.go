package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

// Game is one playthrough inside a room: seats, board, turn and outcome.
type Game struct {
	X Occupant
	O Occupant

	Board       Board
	CurrentTurn Symbol
	State       GameState
	Winner      Symbol
	CreatedAt   time.Time
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Position int
	Symbol   Symbol
	Board    Board
	Outcome  Outcome
}

func (that MoveResult) IsTerminal() bool {
	return that.Outcome.State != StatePlaying
}

// NewGame seats x on X and o on O; X always moves first.
func NewGame(x, o Occupant, now time.Time) *Game {
	return &Game{
		X:           x,
		O:           o,
		Board:       NewBoard(),
		CurrentTurn: SymbolX,
		State:       StatePlaying,
		CreatedAt:   now,
	}
}

func (that *Game) IsFinished() bool {
	return that.State == StateWon || that.State == StateDraw
}

// SymbolOf returns the symbol held by occupant.
func (that *Game) SymbolOf(occupant Occupant) (Symbol, bool) {
	switch {
	case that.X.Is(occupant):
		return SymbolX, true
	case that.O.Is(occupant):
		return SymbolO, true
	default:
		return EmptyCell, false
	}
}

// Holder returns the occupant of the seat for symbol.
func (that *Game) Holder(symbol Symbol) Occupant {
	if symbol == SymbolX {
		return that.X
	}
	return that.O
}

// ApplyMove validates and applies actor's move. A rejected move leaves the game untouched.
func (that *Game) ApplyMove(actor Occupant, position int) (MoveResult, error) {
	symbol, ok := that.SymbolOf(actor)
	if !ok {
		return MoveResult{}, apperror.ErrNotAParticipant
	}

	if that.IsFinished() {
		return MoveResult{}, apperror.ErrGameFinished
	}

	if symbol != that.CurrentTurn {
		return MoveResult{}, apperror.ErrNotYourTurn
	}

	if !IsLegalMove(that.Board, position) {
		return MoveResult{}, fmt.Errorf("%w: cell %d", apperror.ErrIllegalMove, position)
	}

	that.Board[position] = symbol

	outcome := Evaluate(that.Board)
	switch outcome.State {
	case StateWon:
		that.State = StateWon
		that.Winner = outcome.Winner
	case StateDraw:
		that.State = StateDraw
		that.Winner = EmptyCell
	default:
		that.CurrentTurn = symbol.Opponent()
	}

	return MoveResult{
		Position: position,
		Symbol:   symbol,
		Board:    that.Board,
		Outcome:  outcome,
	}, nil
}

// Reset starts a rematch: seats are swapped so X alternates between the two sides.
func (that *Game) Reset(now time.Time) error {
	if !that.IsFinished() {
		return apperror.ErrGameNotFinished
	}

	that.X, that.O = that.O, that.X
	that.Board = NewBoard()
	that.CurrentTurn = SymbolX
	that.State = StatePlaying
	that.Winner = EmptyCell
	that.CreatedAt = now

	return nil
}
