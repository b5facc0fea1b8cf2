package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/outcome"
	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
)

type fakeModel struct {
	calls  []string
	opts   []models.SummaryOptions
	failOn map[int]bool
	onCall func(n int)
}

func (f *fakeModel) Summarize(ctx context.Context, text string, opts models.SummaryOptions) (string, error) {
	f.calls = append(f.calls, text)
	f.opts = append(f.opts, opts)
	n := len(f.calls)
	if f.onCall != nil {
		f.onCall(n)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.failOn[n] {
		return "", errors.New("model failure")
	}
	return fmt.Sprintf("summary %d", n), nil
}

type fakeFactory struct {
	model   *fakeModel
	loadErr error
}

func (f *fakeFactory) NewSummarizer(context.Context, string) (models.Summarizer, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.model, nil
}

func (f *fakeFactory) NewTranslator(context.Context, string, string, string) (models.Translator, error) {
	return nil, errors.New("not used")
}

func writeSRT(t *testing.T, words int) string {
	t.Helper()
	var entries []subtitle.Entry
	for i := 0; i < words; i += 10 {
		var line []string
		for j := i; j < i+10 && j < words; j++ {
			line = append(line, fmt.Sprintf("w%d", j))
		}
		entries = append(entries, subtitle.NewEntry(float64(i), float64(i+1), strings.Join(line, " ")))
	}
	path := filepath.Join(t.TempDir(), "lecture.srt")
	if err := subtitle.WriteFile(path, entries); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestSummarizer(f *fakeFactory, docx bool) Summarizer {
	cfg := config.SummaryConfig{Model: "bart", Docx: docx}
	return New(cfg, models.NewCache(f, logger.Nop()), logger.Nop())
}

func TestSummarizeChunks(t *testing.T) {
	model := &fakeModel{failOn: map[int]bool{2: true}}
	s := newTestSummarizer(&fakeFactory{model: model}, false)

	res, err := s.Summarize(context.Background(), writeSRT(t, 600))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if len(model.calls) != 3 {
		t.Fatalf("model calls = %d, want 3", len(model.calls))
	}
	for i, want := range []int{250, 250, 100} {
		if got := len(strings.Fields(model.calls[i])); got != want {
			t.Errorf("chunk %d has %d words, want %d", i, got, want)
		}
	}
	if model.opts[0] != (models.SummaryOptions{MinLength: 30, MaxLength: 100}) {
		t.Errorf("options = %+v", model.opts[0])
	}

	want := "summary 1 " + outcome.SummaryError + " summary 3"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
}

func TestSummarizeExtractionFailure(t *testing.T) {
	model := &fakeModel{}
	s := newTestSummarizer(&fakeFactory{model: model}, false)

	empty := filepath.Join(t.TempDir(), "empty.srt")
	os.WriteFile(empty, []byte("1\n00:00:00,000 --> 00:00:01,000\n\n"), 0o644)

	for _, path := range []string{empty, filepath.Join(t.TempDir(), "missing.srt")} {
		_, err := s.Summarize(context.Background(), path)
		if !errors.Is(err, ErrExtraction) {
			t.Errorf("Summarize(%s) error = %v, want ErrExtraction", filepath.Base(path), err)
		}
	}
	if len(model.calls) != 0 {
		t.Errorf("model should not be called, got %d calls", len(model.calls))
	}
}

func TestSummarizeModelLoadFailure(t *testing.T) {
	s := newTestSummarizer(&fakeFactory{loadErr: errors.New("offline")}, false)

	if _, err := s.Summarize(context.Background(), writeSRT(t, 20)); err == nil {
		t.Error("Summarize() should fail when the model cannot load")
	}
}

func TestSummarizeFile(t *testing.T) {
	model := &fakeModel{}
	s := newTestSummarizer(&fakeFactory{model: model}, true)
	srt := writeSRT(t, 300)

	out, err := s.SummarizeFile(context.Background(), srt)
	if err != nil {
		t.Fatalf("SummarizeFile() error = %v", err)
	}
	if out != strings.TrimSuffix(srt, ".srt")+"_summary.txt" {
		t.Errorf("SummarizeFile() path = %q", out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "summary 1 summary 2" {
		t.Errorf("summary content = %q", data)
	}
	if _, err := os.Stat(strings.TrimSuffix(srt, ".srt") + "_summary.docx"); err != nil {
		t.Errorf("docx export missing: %v", err)
	}
}

func TestSummarizeFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := &fakeModel{onCall: func(int) { cancel() }}
	s := newTestSummarizer(&fakeFactory{model: model}, true)
	srt := writeSRT(t, 600)

	_, err := s.SummarizeFile(ctx, srt)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("SummarizeFile() error = %v, want context.Canceled", err)
	}
	if len(model.calls) != 1 {
		t.Errorf("model calls = %d, want 1", len(model.calls))
	}
	for _, p := range []string{PathForSubtitle(srt), docxPath(srt)} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not be written, stat err = %v", filepath.Base(p), err)
		}
	}
}

func TestPathForSubtitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"talk.srt", "talk_summary.txt"},
		{"/data/out/Talk.SRT", "/data/out/Talk_summary.txt"},
		{"notes.txt", "notes.txt_summary.txt"},
		{"a.b.srt", "a.b_summary.txt"},
	}
	for _, tt := range tests {
		if got := PathForSubtitle(tt.in); got != tt.want {
			t.Errorf("PathForSubtitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
