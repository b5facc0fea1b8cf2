package summarizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/outcome"
	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
	"github.com/nguyentantai21042004/caption-digest/pkg/atomicfile"
)

// ErrExtraction is returned when the subtitle yields no text to summarize.
var ErrExtraction = errors.New("could not extract text from subtitle")

// PathForSubtitle returns the summary path for an SRT file:
// "talk.srt" becomes "talk_summary.txt".
func PathForSubtitle(srtPath string) string {
	return trimSRT(srtPath) + "_summary.txt"
}

func docxPath(srtPath string) string {
	return trimSRT(srtPath) + "_summary.docx"
}

func trimSRT(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".srt") {
		return path[:len(path)-len(filepath.Ext(path))]
	}
	return path
}

func (s *implSummarizer) Summarize(ctx context.Context, srtPath string) (Result, error) {
	text, err := subtitle.ExtractFile(srtPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	model, err := s.models.Summarizer(ctx, s.cfg.Model)
	if err != nil {
		return Result{}, fmt.Errorf("summary model: %w", err)
	}

	chunks := chunker.Split(text, s.cfg.ChunkSize)
	opts := models.SummaryOptions{
		MinLength: s.cfg.MinLength,
		MaxLength: s.cfg.MaxLength,
	}

	items := make([]outcome.Item, len(chunks))
	for i, chunk := range chunks {
		s.logger.Info(ctx, "[summarizer] summarizing chunk %d/%d", i+1, len(chunks))

		out, err := model.Summarize(ctx, chunk, opts)
		if cerr := ctx.Err(); cerr != nil {
			return Result{}, fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), cerr)
		}
		if err == nil && strings.TrimSpace(out) == "" {
			err = models.ErrMalformedResponse
		}
		if err != nil {
			s.logger.Error(ctx, "[summarizer] chunk %d/%d: %v", i+1, len(chunks), err)
			items[i] = outcome.Failed(err)
			continue
		}
		items[i] = outcome.Ok(strings.TrimSpace(out))
	}

	joined, failed := outcome.Join(items, outcome.SummaryError)
	res := Result{Text: joined, Failed: failed, Chunks: make([]string, len(items))}
	for i, it := range items {
		res.Chunks[i] = it.Or(outcome.SummaryError)
	}
	return res, nil
}

func (s *implSummarizer) SummarizeFile(ctx context.Context, srtPath string) (string, error) {
	res, err := s.Summarize(ctx, srtPath)
	if err != nil {
		return "", err
	}
	if res.Failed > 0 {
		s.logger.Warn(ctx, "[summarizer] %d of %d chunks failed for %s", res.Failed, len(res.Chunks), srtPath)
	}

	out := PathForSubtitle(srtPath)
	if err := atomicfile.WriteFile(out, []byte(res.Text), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	s.logger.Info(ctx, "[summarizer] summary written: %s", out)

	if s.cfg.Docx {
		title := filepath.Base(trimSRT(srtPath))
		if err := writeSummaryDocx(title, res.Chunks, docxPath(srtPath)); err != nil {
			s.logger.Warn(ctx, "[summarizer] docx export for %s: %v", srtPath, err)
		} else {
			s.logger.Info(ctx, "[summarizer] docx written: %s", docxPath(srtPath))
		}
	}

	return out, nil
}
