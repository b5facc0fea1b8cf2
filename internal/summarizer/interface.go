// Package summarizer condenses a subtitle file into a plain text summary,
// one model call per chunk of words.
package summarizer

import "context"

// Result is a joined summary plus how many chunks fell back to the error
// sentinel.
type Result struct {
	Text   string
	Chunks []string
	Failed int
}

// Summarizer produces summaries of SRT files.
type Summarizer interface {
	// Summarize returns the summary of the subtitle at srtPath.
	Summarize(ctx context.Context, srtPath string) (Result, error)
	// SummarizeFile summarizes srtPath and writes the result next to it,
	// returning the path of the text summary.
	SummarizeFile(ctx context.Context, srtPath string) (string, error)
}
