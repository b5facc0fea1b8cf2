// Package models holds the summarization and translation model
// collaborators, the language registry that names them and the cache that
// loads each of them once per process.
package models

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedLanguage is returned for language codes the registry has
	// no model pair for.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrMalformedResponse is returned when a model answers with no usable text.
	ErrMalformedResponse = errors.New("malformed model response")
)

// SummaryOptions bounds a single summary, in model tokens.
type SummaryOptions struct {
	MinLength int
	MaxLength int
	DoSample  bool
}

// Summarizer condenses one chunk of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

// Translator translates one chunk of text between the fixed pair of
// languages it was loaded for.
type Translator interface {
	Translate(ctx context.Context, text string, maxLength int) (string, error)
}

// Factory loads model handles for one backend.
type Factory interface {
	NewSummarizer(ctx context.Context, model string) (Summarizer, error)
	NewTranslator(ctx context.Context, model, source, target string) (Translator, error)
}
