package domain

import "time"

// CaptionEntry is one timed text block from a subtitle track.
type CaptionEntry struct {
	Start time.Duration
	End   time.Duration
	Text  string
}
