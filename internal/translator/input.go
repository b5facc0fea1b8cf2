package translator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
)

// readText loads a translation input. Subtitle files contribute only their
// dialogue lines.
func readText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".srt") {
		text, err := subtitle.ExtractFile(path)
		if err != nil {
			return "", fmt.Errorf("read subtitle: %w", err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
