package summarizer

import (
	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

type implSummarizer struct {
	cfg    config.SummaryConfig
	models *models.Cache
	logger logger.Logger
}

// New creates a Summarizer that loads its model through cache.
func New(cfg config.SummaryConfig, cache *models.Cache, log logger.Logger) Summarizer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultSummarySize
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = 30
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 100
	}
	return &implSummarizer{
		cfg:    cfg,
		models: cache,
		logger: log,
	}
}
