package transcript

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable is returned when a video has no captions via any path.
// The message wording is load-bearing: callers (and the original upstream
// library) identify the no-transcript condition by the literal substring
// "Could not get transcripts", so it must not be reworded.
var ErrUnavailable = errors.New("Could not get transcripts")

// Entry is a single caption with its timing, in milliseconds.
type Entry struct {
	OffsetMs   int64  `json:"offset_ms"`
	DurationMs int64  `json:"duration_ms"`
	Text       string `json:"text"`
}

// Fetcher retrieves the ordered caption entries for a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]Entry, error)
}

// IsUnavailable reports whether err means the video has no transcript.
// Besides the sentinel check it matches the "Could not get transcripts"
// substring; brittle, but it is the contract the upstream wording gives us.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnavailable) ||
		strings.Contains(err.Error(), "Could not get transcripts")
}

// JoinText concatenates entry text in order with single spaces.
func JoinText(entries []Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Text
	}
	return strings.Join(parts, " ")
}
