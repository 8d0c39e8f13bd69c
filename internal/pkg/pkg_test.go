package pkg

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	// When: generating a few codes
	for range 50 {
		code, err := GenerateRoomCode()

		// Then: each one is a valid room code
		require.NoError(t, err)
		normalized, err := NormalizeRoomCode(code)
		require.NoError(t, err)
		assert.Equal(t, code, normalized)
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	t.Run("Lower case code is upper-cased", func(t *testing.T) {
		code, err := NormalizeRoomCode(" ab12cd ")

		require.NoError(t, err)
		assert.Equal(t, "AB12CD", code)
	})

	t.Run("Wrong length and symbols are rejected", func(t *testing.T) {
		for _, code := range []string{"", "ABC", "ABCDEFG", "AB-12C", "ÄBCDEF"} {
			_, err := NormalizeRoomCode(code)

			assert.ErrorIs(t, err, apperror.ErrInvalidRoomCode, code)
		}
	})
}

func TestSanitizePlayerName(t *testing.T) {
	t.Run("Name is trimmed", func(t *testing.T) {
		name, err := SanitizePlayerName("  Alice  ")

		require.NoError(t, err)
		assert.Equal(t, "Alice", name)
	})

	t.Run("Markup is escaped", func(t *testing.T) {
		name, err := SanitizePlayerName("<b>")

		require.NoError(t, err)
		assert.Equal(t, "&lt;b&gt;", name)
	})

	t.Run("Empty and long names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "   ", "ElevenChars", "<script>"} {
			_, err := SanitizePlayerName(name)

			assert.ErrorIs(t, err, apperror.ErrInvalidPlayerName, name)
		}
	})

	t.Run("Control characters are rejected", func(t *testing.T) {
		_, err := SanitizePlayerName("a\tb")

		assert.ErrorIs(t, err, apperror.ErrInvalidPlayerName)
	})
}

func TestGenerateNewSessionID(t *testing.T) {
	assert.NotEqual(t, GenerateNewSessionID(), GenerateNewSessionID())
}
