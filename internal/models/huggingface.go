package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HuggingFaceConfig points at a Hugging Face inference endpoint.
type HuggingFaceConfig struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

// HuggingFace runs hosted seq2seq models through the inference API.
type HuggingFace struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &HuggingFace{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (h *HuggingFace) NewSummarizer(_ context.Context, model string) (Summarizer, error) {
	if model == "" {
		return nil, fmt.Errorf("summary model is required")
	}
	return &hfSummarizer{hf: h, model: model}, nil
}

func (h *HuggingFace) NewTranslator(_ context.Context, model, _, _ string) (Translator, error) {
	if model == "" {
		return nil, fmt.Errorf("translation model is required")
	}
	return &hfTranslator{hf: h, model: model}, nil
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type inferenceOutput struct {
	SummaryText     string `json:"summary_text"`
	TranslationText string `json:"translation_text"`
}

func (h *HuggingFace) infer(ctx context.Context, model string, req inferenceRequest) ([]inferenceOutput, error) {
	req.Options = map[string]any{"wait_for_model": true}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call inference API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out []inferenceOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty result list", ErrMalformedResponse)
	}
	return out, nil
}

type hfSummarizer struct {
	hf    *HuggingFace
	model string
}

func (s *hfSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	out, err := s.hf.infer(ctx, s.model, inferenceRequest{
		Inputs: text,
		Parameters: map[string]any{
			"min_length": opts.MinLength,
			"max_length": opts.MaxLength,
			"do_sample":  opts.DoSample,
		},
	})
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(out[0].SummaryText)
	if summary == "" {
		return "", fmt.Errorf("%w: no summary_text", ErrMalformedResponse)
	}
	return summary, nil
}

type hfTranslator struct {
	hf    *HuggingFace
	model string
}

func (t *hfTranslator) Translate(ctx context.Context, text string, maxLength int) (string, error) {
	out, err := t.hf.infer(ctx, t.model, inferenceRequest{
		Inputs:     text,
		Parameters: map[string]any{"max_length": maxLength},
	})
	if err != nil {
		return "", err
	}
	translated := strings.TrimSpace(out[0].TranslationText)
	if translated == "" {
		return "", fmt.Errorf("%w: no translation_text", ErrMalformedResponse)
	}
	return translated, nil
}
