// Package vad finds the speech intervals of a decoded waveform.
package vad

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/audio"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Segment is a speech interval in seconds. Segments returned by a Segmenter
// are ordered by Start and do not overlap.
type Segment struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

func (s Segment) String() string {
	return fmt.Sprintf("%.2f-%.2f", s.Start, s.End)
}

// Segmenter detects speech intervals.
type Segmenter interface {
	Segments(w audio.Waveform) ([]Segment, error)
}

// Method names for New.
const (
	MethodEnergy = "energy"
	MethodWebRTC = "webrtc"
)

// Config selects and tunes a Segmenter.
type Config struct {
	Method             string
	TopDB              float64
	MaxSegmentDuration float64
	WebRTCMode         int
	MinSilence         float64
	SampleRate         int
}

// New builds the Segmenter named by cfg.Method.
func New(cfg Config) (Segmenter, error) {
	switch cfg.Method {
	case "", MethodEnergy:
		return NewEnergySegmenter(EnergyConfig{
			TopDB:              cfg.TopDB,
			MaxSegmentDuration: cfg.MaxSegmentDuration,
		}), nil
	case MethodWebRTC:
		return NewWebRTCSegmenter(WebRTCConfig{
			SampleRate:         cfg.SampleRate,
			Mode:               cfg.WebRTCMode,
			MinSilence:         cfg.MinSilence,
			MaxSegmentDuration: cfg.MaxSegmentDuration,
		})
	default:
		return nil, fmt.Errorf("unknown vad method %q", cfg.Method)
	}
}

// Detect decodes the WAV file at path and runs s over it. Decoding or
// detection failures are logged and reported as no segments; callers treat
// an empty result as a job failure.
func Detect(ctx context.Context, s Segmenter, path string, sampleRate int, log logger.Logger) ([]Segment, audio.Waveform) {
	log.Info(ctx, "[vad] detecting voice segments in %s", path)

	w, err := audio.DecodeFile(path, sampleRate)
	if err != nil {
		log.Error(ctx, "[vad] decode %s: %v", path, err)
		return nil, audio.Waveform{SampleRate: sampleRate}
	}

	segments, err := s.Segments(w)
	if err != nil {
		log.Error(ctx, "[vad] detect segments in %s: %v", path, err)
		return nil, w
	}

	log.Info(ctx, "[vad] segments detected: %d", len(segments))
	return segments, w
}

// splitLong cuts segments longer than max seconds into consecutive pieces of
// at most max seconds. max <= 0 disables splitting.
func splitLong(segments []Segment, max float64) []Segment {
	if max <= 0 {
		return segments
	}

	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		for start := s.Start; start < s.End; start += max {
			end := start + max
			if end > s.End || s.End-end < 1e-9 {
				end = s.End
			}
			out = append(out, Segment{Start: start, End: end})
			if end == s.End {
				break
			}
		}
	}
	return out
}
