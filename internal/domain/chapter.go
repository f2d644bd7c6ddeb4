package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ChapterMarker names the start of a video segment.
type ChapterMarker struct {
	Offset time.Duration
	Title  string
}

// String renders the marker as a YouTube description line.
func (m ChapterMarker) String() string {
	return FormatTimestamp(m.Offset) + " " + m.Title
}

// ChapterList is an ordered, non-empty sequence of chapter markers plus an
// optional trailing set of hashtags.
type ChapterList struct {
	Markers  []ChapterMarker
	Hashtags []string
}

// Render produces the description block: one marker per line, then a blank
// line and the hashtag line when hashtags are present.
func (l *ChapterList) Render() string {
	var b strings.Builder
	for i, m := range l.Markers {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.String())
	}
	if len(l.Hashtags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(l.Hashtags, " "))
	}
	return b.String()
}

// FormatTimestamp renders an elapsed duration in its shortest canonical form:
// M:SS under an hour, H:MM:SS otherwise.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ParseTimestamp parses H:MM:SS, HH:MM:SS, M:SS or MM:SS tokens. Leading
// zeros are accepted; minute and second fields above 59 are not.
func ParseTimestamp(token string) (time.Duration, bool) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	fields := make([]int, len(parts))
	for i, part := range parts {
		if part == "" || len(part) > 2 {
			return 0, false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		fields[i] = n
	}

	var hours, minutes, seconds int
	if len(fields) == 3 {
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	} else {
		minutes, seconds = fields[0], fields[1]
	}

	if seconds > 59 {
		return 0, false
	}
	if len(fields) == 3 && minutes > 59 {
		return 0, false
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, true
}
