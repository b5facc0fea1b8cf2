// Package translator translates text between a registered language and the
// pivot language, one model call per chunk of words.
package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/outcome"
	"github.com/nguyentantai21042004/caption-digest/pkg/atomicfile"
)

// Direction re-exports models.Direction for callers of this package.
type Direction = models.Direction

const (
	ToPivot   = models.ToPivot
	FromPivot = models.FromPivot
)

// ErrUnsupportedLanguage is returned before any work for unknown codes.
var ErrUnsupportedLanguage = models.ErrUnsupportedLanguage

// Translator translates text and files.
type Translator interface {
	Translate(ctx context.Context, text string, dir Direction, lang string) (string, error)
	TranslateFile(ctx context.Context, in, out string, dir Direction, lang string) error
}

type implTranslator struct {
	cfg      config.TranslationConfig
	registry *models.Registry
	models   *models.Cache
	logger   logger.Logger
}

// New creates a Translator over the given registry and model cache.
func New(cfg config.TranslationConfig, registry *models.Registry, cache *models.Cache, log logger.Logger) Translator {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultTranslationSize
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 512
	}
	return &implTranslator{
		cfg:      cfg,
		registry: registry,
		models:   cache,
		logger:   log,
	}
}

// Translate returns text translated in direction dir for lang. Chunks the
// model fails on are replaced by outcome.TranslateError.
func (t *implTranslator) Translate(ctx context.Context, text string, dir Direction, lang string) (string, error) {
	route, err := t.registry.Lookup(lang, dir)
	if err != nil {
		return "", err
	}

	model, err := t.models.Translator(ctx, route)
	if err != nil {
		return "", fmt.Errorf("translation model: %w", err)
	}

	chunks := chunker.Split(text, t.cfg.ChunkSize)
	items := make([]outcome.Item, len(chunks))
	for i, chunk := range chunks {
		t.logger.Debug(ctx, "[translator] %s -> %s chunk %d/%d", route.Source, route.Target, i+1, len(chunks))

		out, err := model.Translate(ctx, chunk, t.cfg.MaxLength)
		if cerr := ctx.Err(); cerr != nil {
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), cerr)
		}
		if err == nil && strings.TrimSpace(out) == "" {
			err = models.ErrMalformedResponse
		}
		if err != nil {
			t.logger.Error(ctx, "[translator] chunk %d/%d: %v", i+1, len(chunks), err)
			items[i] = outcome.Failed(err)
			continue
		}
		items[i] = outcome.Ok(strings.TrimSpace(out))
	}

	joined, failed := outcome.Join(items, outcome.TranslateError)
	if failed > 0 {
		t.logger.Warn(ctx, "[translator] %d of %d chunks failed", failed, len(chunks))
	}
	return joined, nil
}

// TranslateFile translates the text file in and writes the result to out.
func (t *implTranslator) TranslateFile(ctx context.Context, in, out string, dir Direction, lang string) error {
	if _, err := t.registry.Lookup(lang, dir); err != nil {
		return err
	}

	text, err := readText(in)
	if err != nil {
		return err
	}

	translated, err := t.Translate(ctx, text, dir, lang)
	if err != nil {
		return err
	}

	if err := atomicfile.WriteFile(out, []byte(translated), 0o644); err != nil {
		return fmt.Errorf("write translation: %w", err)
	}
	t.logger.Info(ctx, "[translator] translation written: %s", out)
	return nil
}
