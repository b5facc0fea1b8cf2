package transcriber

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/outcome"
	"github.com/nguyentantai21042004/caption-digest/internal/vad"
)

var (
	// ErrEmptySlice is returned for segments that select no samples.
	ErrEmptySlice = errors.New("segment selects no samples")
	// ErrNoSpeech marks a recognition that produced only whitespace.
	ErrNoSpeech = errors.New("no speech recognized")
)

// TranscribeSegment recognizes the samples covered by seg. A failed item
// resolves to outcome.Inaudible when the recognizer returned nothing and to
// outcome.TranscribeError otherwise; use Text to get that resolution.
func TranscribeSegment(ctx context.Context, samples []float32, seg vad.Segment, stt SpeechToText, rate int, lang string, log logger.Logger) outcome.Item {
	lo, hi := bounds(seg, rate, len(samples))
	if lo >= hi {
		log.Error(ctx, "[transcriber] segment %s selects samples [%d, %d): %v", seg, lo, hi, ErrEmptySlice)
		return outcome.Failed(ErrEmptySlice)
	}

	text, err := stt.Recognize(ctx, samples[lo:hi], rate, lang)
	if err != nil {
		log.Error(ctx, "[transcriber] segment %s (samples %d-%d): %v", seg, lo, hi, err)
		return outcome.Failed(err)
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		log.Warn(ctx, "[transcriber] segment %s: no speech recognized", seg)
		return outcome.Failed(ErrNoSpeech)
	}
	return outcome.Ok(text)
}

// Text resolves a TranscribeSegment item to the subtitle text to write.
func Text(it outcome.Item) string {
	if errors.Is(it.Err, ErrNoSpeech) {
		return outcome.Inaudible
	}
	return it.Or(outcome.TranscribeError)
}

// bounds converts seg to a [lo, hi) sample range clamped to n.
func bounds(seg vad.Segment, rate, n int) (int, int) {
	clamp := func(v int) int {
		return min(max(v, 0), n)
	}
	lo := clamp(int(math.Round(seg.Start * float64(rate))))
	hi := clamp(int(math.Round(seg.End * float64(rate))))
	return lo, hi
}
