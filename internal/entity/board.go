package entity

// Symbol is the mark a seat puts on the board.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"

	EmptyCell Symbol = ""
)

// Opponent returns the other symbol.
func (that Symbol) Opponent() Symbol {
	if that == SymbolX {
		return SymbolO
	}
	return SymbolX
}

const BoardSize = 9

// Board is a 3x3 grid stored row-major: row = index / 3, col = index % 3.
type Board [BoardSize]Symbol

type GameState string

const (
	StatePlaying GameState = "playing"
	StateWon     GameState = "won"
	StateDraw    GameState = "draw"
)

// Outcome is the result of evaluating a board.
type Outcome struct {
	State  GameState
	Winner Symbol
}

// WinCombos is scanned in order; the first complete triple decides the winner.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func NewBoard() Board {
	return Board{}
}

func IsLegalMove(board Board, position int) bool {
	if position < 0 || position >= BoardSize {
		return false
	}

	return board[position] == EmptyCell
}

func Evaluate(board Board) Outcome {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Outcome{State: StateWon, Winner: a}
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == EmptyCell {
			return Outcome{State: StatePlaying}
		}
	}

	return Outcome{State: StateDraw}
}

// EmptyCells returns the free positions in index order.
func EmptyCells(board Board) []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range board {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}
