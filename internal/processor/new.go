package processor

import (
	"github.com/nguyentantai21042004/caption-digest/internal/audio"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/transcriber"
	"github.com/nguyentantai21042004/caption-digest/internal/vad"
)

type implProcessor struct {
	extractor  audio.Extractor
	segmenter  vad.Segmenter
	stt        transcriber.SpeechToText
	language   string
	sampleRate int
	logger     logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, extractor audio.Extractor, segmenter vad.Segmenter, stt transcriber.SpeechToText, log logger.Logger) Processor {
	rate := cfg.FFmpeg.SampleRate
	if rate <= 0 {
		rate = audio.DefaultSampleRate
	}
	return &implProcessor{
		extractor:  extractor,
		segmenter:  segmenter,
		stt:        stt,
		language:   cfg.Whisper.Language,
		sampleRate: rate,
		logger:     log,
	}
}
