package pkg

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const MaxPlayerNameLength = 10

// SanitizePlayerName - trims and HTML-escapes a display name, then enforces 1-10 printable characters.
func SanitizePlayerName(name string) (string, error) {
	escaped := html.EscapeString(strings.TrimSpace(name))

	length := utf8.RuneCountInString(escaped)
	if length == 0 || length > MaxPlayerNameLength {
		return "", fmt.Errorf("%w: length %d", apperror.ErrInvalidPlayerName, length)
	}

	for _, char := range escaped {
		if !unicode.IsPrint(char) {
			return "", fmt.Errorf("%w: non printable character", apperror.ErrInvalidPlayerName)
		}
	}

	return escaped, nil
}
