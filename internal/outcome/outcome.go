// Package outcome carries per-item results through the pipelines so that a
// failed segment or chunk keeps its position and is rendered as a visible
// sentinel instead of being dropped.
package outcome

import "strings"

// Sentinel markers substituted for failed items.
const (
	Inaudible       = "[Inaudible]"
	TranscribeError = "[Error]"
	SummaryError    = "[ERROR AL RESUMIR ESTE FRAGMENTO]"
	TranslateError  = "[ERROR AL TRADUCIR ESTE FRAGMENTO]"
)

// Item is either a produced text or the reason it could not be produced.
type Item struct {
	Text string
	Err  error
}

func Ok(text string) Item {
	return Item{Text: text}
}

func Failed(err error) Item {
	return Item{Err: err}
}

// OK reports whether the item succeeded.
func (i Item) OK() bool {
	return i.Err == nil
}

// Or returns the item text, or sentinel when the item failed.
func (i Item) Or(sentinel string) string {
	if i.Err != nil {
		return sentinel
	}
	return i.Text
}

// Join resolves every item against sentinel and joins them with single
// spaces in order. It also reports how many items failed.
func Join(items []Item, sentinel string) (string, int) {
	parts := make([]string, len(items))
	failed := 0
	for i, it := range items {
		if !it.OK() {
			failed++
		}
		parts[i] = it.Or(sentinel)
	}
	return strings.Join(parts, " "), failed
}
