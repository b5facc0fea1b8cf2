package vad

import (
	"fmt"
	"sync"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/nguyentantai21042004/caption-digest/internal/audio"
)

// WebRTCConfig tunes the WebRTC frame classifier.
type WebRTCConfig struct {
	SampleRate         int
	Mode               int     // 0-3, higher filters more aggressively
	MinSilence         float64 // seconds of non-speech that close a segment
	MaxSegmentDuration float64
}

// WebRTCSegmenter classifies 30 ms frames with the WebRTC VAD and merges
// speech frames separated by less than MinSilence.
type WebRTCSegmenter struct {
	mu  sync.Mutex
	vad *webrtcvad.VAD
	cfg WebRTCConfig
}

func NewWebRTCSegmenter(cfg WebRTCConfig) (*WebRTCSegmenter, error) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = audio.DefaultSampleRate
	}
	switch cfg.SampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("invalid sample rate %d for WebRTC VAD", cfg.SampleRate)
	}
	if cfg.Mode < 0 || cfg.Mode > 3 {
		return nil, fmt.Errorf("mode must be between 0 and 3")
	}
	if cfg.MinSilence <= 0 {
		cfg.MinSilence = 0.3
	}

	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("create WebRTC VAD: %w", err)
	}
	if err := v.SetMode(cfg.Mode); err != nil {
		return nil, fmt.Errorf("set VAD mode: %w", err)
	}

	return &WebRTCSegmenter{vad: v, cfg: cfg}, nil
}

func (s *WebRTCSegmenter) Segments(w audio.Waveform) ([]Segment, error) {
	if len(w.Samples) == 0 {
		return nil, nil
	}
	if w.SampleRate != s.cfg.SampleRate {
		return nil, fmt.Errorf("waveform rate %d does not match VAD rate %d", w.SampleRate, s.cfg.SampleRate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.cfg.SampleRate * 30 / 1000
	rate := float64(s.cfg.SampleRate)
	gapFrames := int(s.cfg.MinSilence * 1000 / 30)
	buf := make([]byte, frame*2)

	var segments []Segment
	runStart, lastSpeech := -1, -1
	for i := 0; i+frame <= len(w.Samples); i += frame {
		pcm16(buf, w.Samples[i:i+frame])
		active, err := s.vad.Process(s.cfg.SampleRate, buf)
		if err != nil {
			return nil, fmt.Errorf("VAD processing failed: %w", err)
		}

		idx := i / frame
		if active {
			if runStart < 0 {
				runStart = idx
			}
			lastSpeech = idx
			continue
		}
		if runStart >= 0 && idx-lastSpeech > gapFrames {
			segments = append(segments, Segment{
				Start: float64(runStart*frame) / rate,
				End:   float64((lastSpeech+1)*frame) / rate,
			})
			runStart = -1
		}
	}
	if runStart >= 0 {
		segments = append(segments, Segment{
			Start: float64(runStart*frame) / rate,
			End:   float64((lastSpeech+1)*frame) / rate,
		})
	}

	return splitLong(segments, s.cfg.MaxSegmentDuration), nil
}

// pcm16 writes samples into dst as little-endian signed 16-bit PCM.
func pcm16(dst []byte, samples []float32) {
	for i, v := range samples {
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		s := int16(v * 32767)
		dst[i*2] = byte(s)
		dst[i*2+1] = byte(s >> 8)
	}
}
