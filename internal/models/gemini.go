package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

const summaryPrompt = `Summarize the following transcript fragment in the same language it is written in.
Write between %d and %d words of plain prose, without headings or lists.

---
%s
---`

const translatePrompt = `Translate the following text from %s to %s.
Reply with the translation only.

---
%s
---`

var languageNames = map[string]string{
	"ar": "Arabic",
	"ca": "Catalan",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"zh": "Chinese",
}

func languageName(code string) string {
	if n, ok := languageNames[code]; ok {
		return n
	}
	return code
}

// Gemini backs summarizers and translators with a Gemini model, rotating
// through the configured API keys when one is rate limited.
type Gemini struct {
	model  string
	logger logger.Logger

	mu         sync.Mutex
	apiKeys    []string
	currentKey int
}

func NewGemini(model string, apiKeys []string, log logger.Logger) (*Gemini, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("gemini requires at least one API key")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{model: model, apiKeys: apiKeys, logger: log}, nil
}

// NewSummarizer ignores model names meant for other backends and uses the
// configured Gemini model.
func (g *Gemini) NewSummarizer(_ context.Context, _ string) (Summarizer, error) {
	return &geminiSummarizer{g: g}, nil
}

func (g *Gemini) NewTranslator(_ context.Context, _ string, source, target string) (Translator, error) {
	if source == "" || target == "" {
		return nil, errors.New("gemini translator needs source and target languages")
	}
	return &geminiTranslator{g: g, source: source, target: target}, nil
}

type geminiSummarizer struct {
	g *Gemini
}

func (s *geminiSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, opts.MinLength, opts.MaxLength, text)
	return s.g.generate(ctx, prompt, opts.MaxLength*2, opts.DoSample)
}

type geminiTranslator struct {
	g      *Gemini
	source string
	target string
}

func (t *geminiTranslator) Translate(ctx context.Context, text string, maxLength int) (string, error) {
	prompt := fmt.Sprintf(translatePrompt, languageName(t.source), languageName(t.target), text)
	return t.g.generate(ctx, prompt, maxLength, false)
}

// generate sends prompt to Gemini and returns the answer text.
// Rotates API keys on 429 / quota errors.
func (g *Gemini) generate(ctx context.Context, prompt string, maxTokens int, sample bool) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if !sample {
		cfg.Temperature = genai.Ptr[float32](0)
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, key := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "[gemini] key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			if text = strings.TrimSpace(text); text != "" {
				return text, nil
			}
		}

		return "", fmt.Errorf("%w: empty response from Gemini", ErrMalformedResponse)
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *Gemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx unless another caller already did.
func (g *Gemini) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
