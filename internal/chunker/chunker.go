// Package chunker splits a word stream into bounded, order-preserving groups
// so each group fits a downstream model's input limit.
package chunker

import "strings"

// Default chunk sizes in words.
const (
	DefaultTranslationSize = 100
	DefaultSummarySize     = 250
)

// Split tokenizes text on whitespace and returns consecutive groups of at most
// max words, each joined by single spaces. Every chunk but the last holds
// exactly max words. A max below 1 is treated as 1.
func Split(text string, max int) []string {
	if max < 1 {
		max = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+max-1)/max)
	for i := 0; i < len(words); i += max {
		end := i + max
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
