package processor

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/subtitle"
	"github.com/nguyentantai21042004/caption-digest/internal/transcriber"
	"github.com/nguyentantai21042004/caption-digest/internal/vad"
)

// transcribe recognizes every segment in order. A failed segment still gets
// an entry carrying its sentinel text.
func (p *implProcessor) transcribe(ctx context.Context, samples []float32, segments []vad.Segment) []subtitle.Entry {
	entries := make([]subtitle.Entry, 0, len(segments))
	failed := 0

	for i, seg := range segments {
		if ctx.Err() != nil {
			break
		}
		p.logger.Info(ctx, "[%d/%d] Transcribing segment %s", i+1, len(segments), seg)

		it := transcriber.TranscribeSegment(ctx, samples, seg, p.stt, p.sampleRate, p.language, p.logger)
		if !it.OK() {
			failed++
		}
		entries = append(entries, subtitle.NewEntry(seg.Start, seg.End, transcriber.Text(it)))
	}

	if failed > 0 {
		p.logger.Warn(ctx, "%d of %d segments have no transcription", failed, len(segments))
	}
	return entries
}
