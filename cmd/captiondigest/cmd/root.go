package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "captiondigest",
	Short: "Transcribe, summarize and translate recorded talks",
	Long: `captiondigest turns videos into SRT subtitles with whisper.cpp,
condenses subtitles into plain text summaries and translates text through a
pivot language.

Commands:
  transcribe - video -> <video>.srt
  summarize  - <name>.srt -> <name>_summary.txt
  translate  - text or subtitle -> translated text
  watch      - transcribe every video dropped into the input folder`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
