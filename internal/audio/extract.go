package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// ErrExtract marks a video whose audio track could not be read.
var ErrExtract = errors.New("could not extract audio from video")

// Extractor turns a video container into a mono PCM WAV file.
type Extractor interface {
	Extract(ctx context.Context, videoPath string) (string, error)
}

type ffmpegExtractor struct {
	binary     string
	sampleRate int
	tempDir    string
	executor   executor.Executor
	logger     logger.Logger
}

// NewFFmpegExtractor creates an Extractor backed by the ffmpeg binary.
// Extracted files land in tempDir, or next to the video when tempDir is empty.
func NewFFmpegExtractor(binary string, sampleRate int, tempDir string, exec executor.Executor, log logger.Logger) Extractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &ffmpegExtractor{
		binary:     binary,
		sampleRate: sampleRate,
		tempDir:    tempDir,
		executor:   exec,
		logger:     log,
	}
}

// Extract writes <name>_temp.wav and returns its path. The caller removes it.
func (e *ffmpegExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	dir := e.tempDir
	if dir == "" {
		dir = filepath.Dir(videoPath)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create temp dir: %v", ErrExtract, err)
	}
	audioPath := filepath.Join(dir, base+"_temp.wav")

	e.logger.Info(ctx, "[audio] extracting %s", videoPath)

	// -vn drops video, -ac 1 mono, pcm_s16le keeps it uncompressed
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(e.sampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := e.executor.Execute(ctx, e.binary, args...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	e.logger.Info(ctx, "[audio] extracted %s", audioPath)
	return audioPath, nil
}
