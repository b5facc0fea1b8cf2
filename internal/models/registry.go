package models

import (
	"fmt"
	"sort"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
)

// Direction picks which model of a language pair to use.
type Direction int

const (
	// ToPivot translates from the language into the pivot language.
	ToPivot Direction = iota
	// FromPivot translates from the pivot language into the language.
	FromPivot
)

func (d Direction) String() string {
	if d == FromPivot {
		return "from-pivot"
	}
	return "to-pivot"
}

// Route is a resolved translation: model plus source and target codes.
type Route struct {
	Model  string
	Source string
	Target string
}

// Registry maps language codes to the model pair that links them with the
// pivot language.
type Registry struct {
	pivot string
	pairs map[string]config.ModelPair
}

func NewRegistry(pivot string, pairs map[string]config.ModelPair) *Registry {
	cp := make(map[string]config.ModelPair, len(pairs))
	for lang, p := range pairs {
		cp[lang] = p
	}
	return &Registry{pivot: pivot, pairs: cp}
}

// Pivot returns the pivot language code.
func (r *Registry) Pivot() string {
	return r.pivot
}

// Lookup resolves lang and d to a model route.
func (r *Registry) Lookup(lang string, d Direction) (Route, error) {
	p, ok := r.pairs[lang]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	if d == FromPivot {
		return Route{Model: p.Forward, Source: r.pivot, Target: lang}, nil
	}
	return Route{Model: p.Reverse, Source: lang, Target: r.pivot}, nil
}

// Languages returns the registered codes in sorted order.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.pairs))
	for lang := range r.pairs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
