package summarizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/caption-digest/internal/outcome"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

// writeSummaryDocx writes one paragraph per summary chunk under title.
// Failed chunks keep their position and are set in bold.
func writeSummaryDocx(title string, chunks []string, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, c := range chunks {
		addStyledRun(doc.AddParagraph(""), c, c == outcome.SummaryError, fontSize)
	}

	base := strings.TrimSuffix(filepath.Base(outputPath), ".docx")
	tmp := filepath.Join(filepath.Dir(outputPath), "."+base+".tmp.docx")
	if err := doc.SaveTo(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save docx: %w", err)
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename docx: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
