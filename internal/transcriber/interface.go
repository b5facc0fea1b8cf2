// Package transcriber turns speech segments into subtitle text.
package transcriber

import "context"

// SpeechToText recognizes the speech in a mono PCM slice.
type SpeechToText interface {
	Recognize(ctx context.Context, samples []float32, sampleRate int, lang string) (string, error)
}
