package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/job"
	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
)

var (
	transcribeLang      string
	transcribeOutputDir string
	transcribeSummarize bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <video>...",
	Short: "Generate SRT subtitles for videos",
	Long: `Extracts the audio track of each video, detects the voiced segments and
transcribes them with whisper.cpp. The subtitle is written next to the video
as <video>.srt unless --output-dir is given.

Segments whisper cannot read are kept as [Inaudible] or [Error] blocks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeLang, "lang", "l", "", "transcription language (default from config)")
	transcribeCmd.Flags().StringVarP(&transcribeOutputDir, "output-dir", "o", "", "directory for the subtitle files")
	transcribeCmd.Flags().BoolVar(&transcribeSummarize, "summarize", false, "summarize each subtitle once written")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("load config", err)
		return err
	}
	if transcribeLang != "" {
		if err := a.cfg.CheckLanguage(transcribeLang); err != nil {
			printError("--lang", err)
			return err
		}
		a.cfg.Whisper.Language = transcribeLang
	}

	proc, err := a.buildProcessor()
	if err != nil {
		printError("setup", err)
		return err
	}

	ctx, stop := a.signalContext(cmd.Context())
	defer stop()

	jobs := make([]*job.Job, 0, len(args))
	for _, video := range args {
		srt := subtitlePath(video, transcribeOutputDir)
		j, err := a.queue.Submit(job.KindTranscribe, video, srt, func(ctx context.Context) (string, error) {
			return proc.ProcessTo(ctx, video, srt)
		})
		if err != nil {
			return err
		}
		jobs = append(jobs, j)
	}

	err = a.waitAll(ctx, jobs)
	if !transcribeSummarize {
		return err
	}

	var srts []string
	for _, j := range jobs {
		if j.Err() == nil {
			srts = append(srts, j.Result())
		}
	}
	if len(srts) == 0 {
		return err
	}
	if serr := summarizeAll(ctx, a, srts); serr != nil && err == nil {
		err = serr
	}
	return err
}

// subtitlePath places the subtitle of video in dir, or next to the video
// when dir is empty.
func subtitlePath(video, dir string) string {
	srt := subtitle.PathForVideo(video)
	if dir == "" {
		return srt
	}
	return filepath.Join(dir, filepath.Base(srt))
}

func summarizeAll(ctx context.Context, a *app, srts []string) error {
	sum, err := a.buildSummarizer()
	if err != nil {
		printError("setup", err)
		return err
	}

	jobs := make([]*job.Job, 0, len(srts))
	for _, srt := range srts {
		j, err := submitSummary(a, sum, srt)
		if err != nil {
			return fmt.Errorf("queue summary: %w", err)
		}
		jobs = append(jobs, j)
	}
	return a.waitAll(ctx, jobs)
}
