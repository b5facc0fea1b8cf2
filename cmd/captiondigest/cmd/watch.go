package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/job"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/watcher"
)

var watchScan bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Transcribe videos dropped into the input folder",
	Long: `Watches paths.input for new videos and transcribes each one into
paths.output. With summary.auto enabled every new subtitle is summarized too.

Press Ctrl+C to stop; running jobs are cancelled.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "also process videos already in the input folder")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("load config", err)
		return err
	}

	ctx, stop := a.signalContext(cmd.Context())
	defer stop()

	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "Caption digest watcher")
	a.log.Info(ctx, "========================================")
	a.log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	a.log.Info(ctx, "Max concurrent jobs: %d", a.cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(a.cfg.Paths.Input, a.cfg.Paths.Output, a.cfg.Paths.Temp); err != nil {
		a.log.Error(ctx, "Failed to create directories: %v", err)
		return err
	}

	proc, err := a.buildProcessor()
	if err != nil {
		printError("setup", err)
		return err
	}

	var sum summarizer.Summarizer
	if a.cfg.Summary.Auto {
		if sum, err = a.buildSummarizer(); err != nil {
			printError("setup", err)
			return err
		}
	}

	handler := func(ctx context.Context, video string) error {
		srt := subtitlePath(video, a.cfg.Paths.Output)
		j, err := a.queue.Submit(job.KindTranscribe, video, srt, func(ctx context.Context) (string, error) {
			return proc.ProcessTo(ctx, video, srt)
		})
		if err != nil {
			return err
		}
		if sum != nil {
			go chainSummary(ctx, a, sum, j)
		}
		return nil
	}

	w, err := watcher.New(watcher.Config{
		InputDir:     a.cfg.Paths.Input,
		Settle:       500 * time.Millisecond,
		ScanExisting: watchScan,
	}, handler, a.log)
	if err != nil {
		a.log.Error(ctx, "Failed to create watcher: %v", err)
		return err
	}
	defer w.Stop()

	a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.log.Info(ctx, "Press Ctrl+C to stop")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error(ctx, "Watcher error: %v", err)
		return err
	}

	a.log.Info(context.Background(), "Watcher stopped")
	return nil
}

// chainSummary queues a summary once the transcription job succeeds.
func chainSummary(ctx context.Context, a *app, sum summarizer.Summarizer, transcribe *job.Job) {
	select {
	case <-transcribe.Done():
	case <-ctx.Done():
		return
	}
	if transcribe.Err() != nil {
		return
	}
	if _, err := submitSummary(a, sum, transcribe.Result()); err != nil {
		a.log.Warn(ctx, "Could not queue summary for %s: %v", transcribe.Result(), err)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
