package transcriber

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/audio"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// WhisperConfig points at a whisper.cpp installation.
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Threads    int
	Timeout    time.Duration // per segment, 0 = none
	TempDir    string
}

// WhisperCLI runs the whisper.cpp command line tool on one segment at a time.
type WhisperCLI struct {
	cfg  WhisperConfig
	exec executor.Executor
}

func NewWhisperCLI(cfg WhisperConfig, exec executor.Executor) *WhisperCLI {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "whisper-cli"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	return &WhisperCLI{cfg: cfg, exec: exec}
}

// Recognize writes samples to a temporary WAV file and returns whisper's
// plain text output.
func (w *WhisperCLI) Recognize(ctx context.Context, samples []float32, sampleRate int, lang string) (string, error) {
	if w.cfg.TempDir != "" {
		if err := os.MkdirAll(w.cfg.TempDir, 0o755); err != nil {
			return "", fmt.Errorf("create temp dir: %w", err)
		}
	}
	f, err := os.CreateTemp(w.cfg.TempDir, "segment-*.wav")
	if err != nil {
		return "", fmt.Errorf("create segment file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := audio.EncodeFile(path, samples, sampleRate); err != nil {
		return "", fmt.Errorf("write segment audio: %w", err)
	}

	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	// -nt: no timestamps, -np: only the recognized text on stdout
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", path,
		"-l", lang,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-nt",
		"-np",
	}
	out, err := w.exec.Execute(ctx, w.cfg.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	return strings.TrimSpace(out), nil
}
