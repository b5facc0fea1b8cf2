package subtitle

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ErrNoText is returned when a subtitle document has no content lines.
var ErrNoText = errors.New("no text extracted from subtitle")

// ExtractText strips sequence numbers, timing lines and blank lines from an
// SRT document and returns the remaining lines joined by newlines. Lines
// from documents not produced here are kept as long as they are neither
// all digits nor timing lines.
func ExtractText(doc string) (string, error) {
	doc = strings.TrimPrefix(doc, "\ufeff")

	var kept []string
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isDigits(trimmed) || strings.Contains(trimmed, Arrow) {
			continue
		}
		kept = append(kept, trimmed)
	}

	if len(kept) == 0 {
		return "", ErrNoText
	}
	return strings.Join(kept, "\n"), nil
}

// ExtractFile reads path and runs ExtractText on it.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read subtitle: %w", err)
	}
	return ExtractText(string(data))
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
