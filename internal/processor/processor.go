package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
	"github.com/nguyentantai21042004/caption-digest/internal/vad"
)

func (p *implProcessor) Process(ctx context.Context, videoPath string) (string, error) {
	return p.ProcessTo(ctx, videoPath, subtitle.PathForVideo(videoPath))
}

// ProcessTo orchestrates the transcription pipeline for one video
func (p *implProcessor) ProcessTo(ctx context.Context, videoPath, srtPath string) (string, error) {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcription: %s", videoPath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Extract audio
	audioPath, err := p.extractor.Extract(ctx, videoPath)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, audioPath)

	// Step 2: Detect voice segments
	segments, waveform := vad.Detect(ctx, p.segmenter, audioPath, p.sampleRate, p.logger)
	if len(segments) == 0 {
		return "", ErrNoSpeech
	}

	// Step 3: Transcribe each segment
	entries := p.transcribe(ctx, waveform.Samples, segments)
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	// Step 4: Write subtitle
	if err := os.MkdirAll(filepath.Dir(srtPath), 0755); err != nil {
		return "", fmt.Errorf("create subtitle dir: %w", err)
	}
	if err := subtitle.WriteFile(srtPath, entries); err != nil {
		return "", fmt.Errorf("write subtitle: %w", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Transcription completed: %s", srtPath)
	p.logger.Info(ctx, "Segments: %d, processing time: %s", len(entries), time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return srtPath, nil
}
