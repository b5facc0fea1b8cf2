// Package subtitle serializes transcripts as SRT documents and recovers the
// spoken text from them.
package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/pkg/atomicfile"
)

// Arrow separates the start and end timestamps of a block.
const Arrow = "-->"

// Entry is one subtitle block. Its sequence number is derived from its
// position when rendered and is never stored.
type Entry struct {
	Start string
	End   string
	Text  string
}

// NewEntry builds an Entry from second offsets.
func NewEntry(start, end float64, text string) Entry {
	return Entry{
		Start: FormatTimestamp(start),
		End:   FormatTimestamp(end),
		Text:  text,
	}
}

// Render produces the SRT document for entries, numbering blocks 1..N in
// input order.
func Render(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d\n%s %s %s\n%s\n\n", i+1, e.Start, Arrow, e.End, e.Text)
	}
	return b.String()
}

// WriteFile renders entries to path. The file appears only once it is
// complete.
func WriteFile(path string, entries []Entry) error {
	if err := atomicfile.WriteFile(path, []byte(Render(entries)), 0644); err != nil {
		return fmt.Errorf("write subtitle %s: %w", path, err)
	}
	return nil
}

// PathForVideo returns the subtitle path for a video: same name, .srt extension.
func PathForVideo(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".srt"
}
