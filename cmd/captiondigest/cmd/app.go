package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/audio"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/job"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcriber"
	"github.com/nguyentantai21042004/caption-digest/internal/translator"
	"github.com/nguyentantai21042004/caption-digest/internal/vad"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// app holds the wiring shared by the subcommands
type app struct {
	cfg   *config.Config
	log   logger.Logger
	exec  executor.Executor
	queue *job.Queue
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log := logger.New(level)

	return &app{
		cfg:   cfg,
		log:   log,
		exec:  executor.New(),
		queue: job.NewQueue(cfg.Performance.MaxConcurrent, log),
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM or by the returned
// CancelFunc. Either way the queue stops.
func (a *app) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		a.queue.Stop()
	}()
	return ctx, stop
}

func (a *app) buildProcessor() (processor.Processor, error) {
	extractor := audio.NewFFmpegExtractor(a.cfg.FFmpeg.BinaryPath, a.cfg.FFmpeg.SampleRate, a.cfg.Paths.Temp, a.exec, a.log)

	segmenter, err := vad.New(vad.Config{
		Method:             a.cfg.VAD.Method,
		TopDB:              a.cfg.VAD.TopDB,
		MaxSegmentDuration: a.cfg.VAD.MaxSegmentDuration,
		WebRTCMode:         a.cfg.VAD.WebRTCMode,
		MinSilence:         a.cfg.VAD.MinSilence,
		SampleRate:         a.cfg.FFmpeg.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("voice detection: %w", err)
	}

	stt := transcriber.NewWhisperCLI(transcriber.WhisperConfig{
		BinaryPath: a.cfg.Whisper.BinaryPath,
		ModelPath:  a.cfg.Whisper.ModelPath,
		Threads:    a.cfg.Whisper.Threads,
		Timeout:    a.cfg.Whisper.Timeout,
		TempDir:    a.cfg.Paths.Temp,
	}, a.exec)

	return processor.New(a.cfg, extractor, segmenter, stt, a.log), nil
}

func (a *app) buildSummarizer() (summarizer.Summarizer, error) {
	factory, err := models.NewFactory(a.cfg.Summary.Backend, a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("summary backend: %w", err)
	}
	return summarizer.New(a.cfg.Summary, models.NewCache(factory, a.log), a.log), nil
}

func (a *app) buildTranslator() (translator.Translator, error) {
	factory, err := models.NewFactory(a.cfg.Translation.Backend, a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("translation backend: %w", err)
	}
	registry := models.NewRegistry(a.cfg.Translation.Pivot, a.cfg.Translation.Models)
	return translator.New(a.cfg.Translation, registry, models.NewCache(factory, a.log), a.log), nil
}

// waitAll waits for jobs and prints one line per job. It fails when any job
// failed.
func (a *app) waitAll(ctx context.Context, jobs []*job.Job) error {
	failed := 0
	for _, j := range jobs {
		select {
		case <-j.Done():
		case <-ctx.Done():
			return ctx.Err()
		}

		if err := j.Err(); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[-] %s %s: %s\n", j.Kind, j.Input, describe(err))
			continue
		}
		fmt.Printf("[+] %s %s -> %s (%s)\n", j.Kind, j.Input, j.Result(), j.Elapsed().Round(time.Millisecond))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}

// describe turns job errors into the messages shown to users.
func describe(err error) string {
	switch {
	case errors.Is(err, processor.ErrNoSpeech):
		return processor.ErrNoSpeech.Error()
	case errors.Is(err, summarizer.ErrExtraction):
		return summarizer.ErrExtraction.Error()
	default:
		return err.Error()
	}
}
