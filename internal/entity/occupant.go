package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

type Difficulty string

const (
	EasyDifficulty   Difficulty = "easy"
	MediumDifficulty Difficulty = "medium"
	HardDifficulty   Difficulty = "hard"
)

func ParseDifficulty(value string) (Difficulty, error) {
	switch difficulty := Difficulty(strings.ToLower(strings.TrimSpace(value))); difficulty {
	case EasyDifficulty, MediumDifficulty, HardDifficulty:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, value)
	}
}

type occupantKind int

const (
	humanOccupant occupantKind = iota + 1
	botOccupant
)

// Occupant is whoever holds a seat in a game: a human player or a bot.
type Occupant struct {
	kind       occupantKind
	playerID   string
	difficulty Difficulty
}

func Human(playerID string) Occupant {
	return Occupant{kind: humanOccupant, playerID: playerID}
}

func Bot(difficulty Difficulty) Occupant {
	return Occupant{kind: botOccupant, difficulty: difficulty}
}

func (that Occupant) IsBot() bool {
	return that.kind == botOccupant
}

func (that Occupant) IsHuman() bool {
	return that.kind == humanOccupant
}

// PlayerID is empty for a bot.
func (that Occupant) PlayerID() string {
	return that.playerID
}

func (that Occupant) Difficulty() Difficulty {
	return that.difficulty
}

// Is reports whether both values name the same seat holder. A room holds at most one bot.
func (that Occupant) Is(other Occupant) bool {
	if that.kind != other.kind {
		return false
	}

	if that.kind == botOccupant {
		return true
	}

	return that.playerID == other.playerID
}
