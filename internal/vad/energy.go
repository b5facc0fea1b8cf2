package vad

import (
	"math"

	"github.com/nguyentantai21042004/caption-digest/internal/audio"
)

const (
	defaultTopDB       = 25
	defaultFrameLength = 2048
	defaultHopLength   = 512

	// power floor; a waveform whose loudest frame is below this is silent
	minPower = 1e-10
)

// EnergyConfig tunes the energy threshold segmenter.
type EnergyConfig struct {
	TopDB              float64 // dB below the loudest frame that counts as silence
	FrameLength        int
	HopLength          int
	MaxSegmentDuration float64
}

// EnergySegmenter splits a waveform on frames whose RMS power falls more than
// TopDB below the loudest frame.
type EnergySegmenter struct {
	cfg EnergyConfig
}

// NewEnergySegmenter fills zero fields of cfg with defaults.
func NewEnergySegmenter(cfg EnergyConfig) *EnergySegmenter {
	if cfg.TopDB <= 0 {
		cfg.TopDB = defaultTopDB
	}
	if cfg.FrameLength <= 0 {
		cfg.FrameLength = defaultFrameLength
	}
	if cfg.HopLength <= 0 {
		cfg.HopLength = defaultHopLength
	}
	return &EnergySegmenter{cfg: cfg}
}

// Segments never fails; it returns an empty list for empty or silent input.
func (e *EnergySegmenter) Segments(w audio.Waveform) ([]Segment, error) {
	if len(w.Samples) == 0 || w.SampleRate <= 0 {
		return nil, nil
	}

	intervals := e.nonSilent(w.Samples)
	segments := make([]Segment, 0, len(intervals))
	rate := float64(w.SampleRate)
	for _, iv := range intervals {
		segments = append(segments, Segment{
			Start: float64(iv[0]) / rate,
			End:   float64(iv[1]) / rate,
		})
	}
	return splitLong(segments, e.cfg.MaxSegmentDuration), nil
}

// nonSilent returns [start, end) sample intervals of non-silent frames.
func (e *EnergySegmenter) nonSilent(samples []float32) [][2]int {
	power := framePower(samples, e.cfg.FrameLength, e.cfg.HopLength)

	peak := 0.0
	for _, p := range power {
		if p > peak {
			peak = p
		}
	}
	if peak < minPower {
		return nil
	}

	threshold := peak * math.Pow(10, -e.cfg.TopDB/10)
	n := len(samples)
	hop := e.cfg.HopLength

	var intervals [][2]int
	runStart := -1
	for t := 0; t <= len(power); t++ {
		loud := t < len(power) && math.Max(power[t], minPower) > threshold
		switch {
		case loud && runStart < 0:
			runStart = t
		case !loud && runStart >= 0:
			start := min(runStart*hop, n)
			end := min(t*hop, n)
			if start < end {
				intervals = append(intervals, [2]int{start, end})
			}
			runStart = -1
		}
	}
	return intervals
}

// framePower computes the mean square of centered, zero-padded frames spaced
// hop samples apart.
func framePower(samples []float32, frameLength, hop int) []float64 {
	n := len(samples)
	prefix := make([]float64, n+1)
	for i, s := range samples {
		v := float64(s)
		prefix[i+1] = prefix[i] + v*v
	}

	half := frameLength / 2
	frames := 1 + n/hop
	power := make([]float64, frames)
	for t := range power {
		lo := max(t*hop-half, 0)
		hi := min(t*hop-half+frameLength, n)
		if hi > lo {
			power[t] = (prefix[hi] - prefix[lo]) / float64(frameLength)
		}
	}
	return power
}
