package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const (
	RoomCodeLength = 6

	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateRoomCode - generates a random 6 character upper-case alphanumeric code.
func GenerateRoomCode() (string, error) {
	var builder strings.Builder
	builder.Grow(RoomCodeLength)

	alphabetSize := big.NewInt(int64(len(roomCodeAlphabet)))
	for range RoomCodeLength {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		builder.WriteByte(roomCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

// NormalizeRoomCode - validates a client supplied room code and upper-cases it.
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != RoomCodeLength {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidRoomCode, code)
	}

	for _, char := range code {
		if !strings.ContainsRune(roomCodeAlphabet, char) {
			return "", fmt.Errorf("%w: %q", apperror.ErrInvalidRoomCode, code)
		}
	}

	return code, nil
}

// GenerateNewSessionID - generates a new unique connection-scoped player id.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
