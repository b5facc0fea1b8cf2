// Package audio decodes, encodes and extracts the mono PCM audio the
// transcription pipeline works on.
package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate is the rate whisper models expect.
const DefaultSampleRate = 16000

const resampleQuality = 4

// Waveform is a decoded mono signal in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the signal length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// DecodeFile reads a WAV file, downmixes it to mono and resamples it to
// sampleRate when the file uses a different rate.
func DecodeFile(path string, sampleRate int) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	return Decode(f, sampleRate)
}

// Decode is DecodeFile for an already opened reader.
func Decode(r io.Reader, sampleRate int) (Waveform, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	streamer, format, err := wav.Decode(r)
	if err != nil {
		return Waveform{}, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	target := beep.SampleRate(sampleRate)
	if format.SampleRate != target {
		s = beep.Resample(resampleQuality, format.SampleRate, target, streamer)
	}

	samples := make([]float32, 0, streamer.Len())
	buf := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, float32((buf[i][0]+buf[i][1])/2))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return Waveform{}, fmt.Errorf("read wav samples: %w", err)
	}

	return Waveform{Samples: samples, SampleRate: sampleRate}, nil
}

// EncodeFile writes samples as a 16-bit mono WAV file.
func EncodeFile(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, &sliceStreamer{samples: samples}, format); err != nil {
		f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	return f.Close()
}

// sliceStreamer exposes a mono sample slice as a beep.Streamer.
type sliceStreamer struct {
	samples []float32
	pos     int
}

func (s *sliceStreamer) Stream(buf [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy2(buf, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error {
	return nil
}

func copy2(dst [][2]float64, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		v := float64(src[i])
		dst[i] = [2]float64{v, v}
	}
	return n
}
