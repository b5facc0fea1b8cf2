package models

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// NewFactory builds the model factory for backend.
func NewFactory(backend string, cfg *config.Config, log logger.Logger) (Factory, error) {
	switch backend {
	case config.BackendHuggingFace:
		return NewHuggingFace(HuggingFaceConfig{
			APIURL:  cfg.HuggingFace.APIURL,
			Token:   cfg.HuggingFace.APIToken,
			Timeout: cfg.HuggingFace.Timeout,
		}), nil
	case config.BackendGemini:
		g, err := NewGemini(cfg.Gemini.Model, cfg.Gemini.APIKeys, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}
}
