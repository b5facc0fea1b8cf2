package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/job"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
)

var summarizeDocx bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize <subtitle.srt>...",
	Short: "Summarize SRT subtitles",
	Long: `Extracts the dialogue of each subtitle, splits it into chunks of words and
summarizes every chunk. The joined summary is written as <name>_summary.txt.

Chunks the model fails on are kept as [ERROR AL RESUMIR ESTE FRAGMENTO].`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeDocx, "docx", false, "also write a .docx summary")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		printError("load config", err)
		return err
	}
	if summarizeDocx {
		a.cfg.Summary.Docx = true
	}

	ctx, stop := a.signalContext(cmd.Context())
	defer stop()

	return summarizeAll(ctx, a, args)
}

func submitSummary(a *app, sum summarizer.Summarizer, srt string) (*job.Job, error) {
	return a.queue.Submit(job.KindSummarize, srt, summarizer.PathForSubtitle(srt), func(ctx context.Context) (string, error) {
		return sum.SummarizeFile(ctx, srt)
	})
}
