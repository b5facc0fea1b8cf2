package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/job"
	"github.com/nguyentantai21042004/caption-digest/internal/translator"
)

var (
	translateLang      string
	translateDirection string
	translateOutput    string
)

var translateCmd = &cobra.Command{
	Use:   "translate <file>",
	Short: "Translate text to or from the pivot language",
	Long: `Translates a text or subtitle file between a registered language and the
pivot language (Spanish by default).

  --direction to-pivot    <lang> -> pivot
  --direction from-pivot  pivot -> <lang>

Subtitle inputs are reduced to their dialogue first. Chunks the model fails on
are kept as [ERROR AL TRADUCIR ESTE FRAGMENTO].`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateLang, "lang", "l", "", "language code, e.g. ca, en, fr")
	translateCmd.Flags().StringVarP(&translateDirection, "direction", "d", "to-pivot", "to-pivot or from-pivot")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "output file (default <name>_<target>.txt)")
	translateCmd.MarkFlagRequired("lang")
	rootCmd.AddCommand(translateCmd)
}

func parseDirection(s string) (translator.Direction, error) {
	switch strings.ToLower(s) {
	case "to-pivot", "to":
		return translator.ToPivot, nil
	case "from-pivot", "from":
		return translator.FromPivot, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want to-pivot or from-pivot)", s)
	}
}

// translationPath names the output after the input and the target language.
func translationPath(in, target string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + "_" + target + ".txt"
}

func runTranslate(cmd *cobra.Command, args []string) error {
	dir, err := parseDirection(translateDirection)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		printError("load config", err)
		return err
	}

	tr, err := a.buildTranslator()
	if err != nil {
		printError("setup", err)
		return err
	}

	in := args[0]
	out := translateOutput
	if out == "" {
		target := a.cfg.Translation.Pivot
		if dir == translator.FromPivot {
			target = translateLang
		}
		out = translationPath(in, target)
	}

	ctx, stop := a.signalContext(cmd.Context())
	defer stop()

	j, err := a.queue.Submit(job.KindTranslate, in, out, func(ctx context.Context) (string, error) {
		if err := tr.TranslateFile(ctx, in, out, dir, translateLang); err != nil {
			return "", err
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	return a.waitAll(ctx, []*job.Job{j})
}
