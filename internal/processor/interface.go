package processor

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when voice detection finds nothing to transcribe.
var ErrNoSpeech = errors.New("no voice segments detected (silent or music-only audio)")

// Processor turns a video into a subtitle file
type Processor interface {
	// Process writes the subtitle next to the video and returns its path
	Process(ctx context.Context, videoPath string) (string, error)
	// ProcessTo writes the subtitle to srtPath
	ProcessTo(ctx context.Context, videoPath, srtPath string) (string, error)
}
