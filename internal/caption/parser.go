// Package caption parses timed subtitle tracks (SRT, and the WebVTT cues
// yt-dlp sometimes leaves behind) into deduplicated plain text.
package caption

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kanno/yt-chapters-go/internal/domain"
	"github.com/kanno/yt-chapters-go/internal/util"
	"github.com/kanno/yt-chapters-go/pkg/errors"
)

// Matches "00:01:02,350 --> 00:01:04.200" with either SRT comma or VTT dot
// millisecond separators. VTT cue settings after the range are ignored.
var timeRangePattern = regexp.MustCompile(
	`(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)

// Inline markup such as VTT voice/class tags.
var inlineTagPattern = regexp.MustCompile(`<[^>]*>`)

const maxLineBytes = 1 << 20

// Parse reads a subtitle track and returns its entries in chronological
// order, with consecutive duplicate text collapsed. It returns a ParseError
// when the input contains no valid blocks at all.
func Parse(r io.Reader) ([]domain.CaptionEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var entries []domain.CaptionEntry
	var current *domain.CaptionEntry
	var textLines []string

	flush := func() {
		if current == nil {
			return
		}
		text := util.CollapseWhitespace(strings.Join(textLines, " "))
		if text != "" {
			current.Text = text
			entries = append(entries, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := timeRangePattern.FindStringSubmatch(line); m != nil {
			flush()
			start := cueTime(m[1], m[2], m[3], m[4])
			end := cueTime(m[5], m[6], m[7], m[8])
			current = &domain.CaptionEntry{Start: start, End: end}
			continue
		}

		if current == nil {
			// Block indices, the WEBVTT header, and stray metadata lines
			// all land here.
			continue
		}

		if line == "" {
			flush()
			continue
		}

		if cleaned := inlineTagPattern.ReplaceAllString(line, ""); strings.TrimSpace(cleaned) != "" {
			textLines = append(textLines, cleaned)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, errors.NewParseError("failed to read caption file", "captions", err)
	}

	if len(entries) == 0 {
		return nil, errors.NewParseError("caption file contains no valid blocks", "captions", nil)
	}

	return Dedupe(entries), nil
}

// ParseFile parses the subtitle track at path.
func ParseFile(path string) ([]domain.CaptionEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open caption file", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Dedupe collapses runs of consecutive entries whose normalized text is
// identical, a common artifact of auto-generated captions with overlapping
// windows. The earliest start and latest end of each run are kept.
func Dedupe(entries []domain.CaptionEntry) []domain.CaptionEntry {
	if len(entries) == 0 {
		return entries
	}

	result := make([]domain.CaptionEntry, 0, len(entries))
	result = append(result, entries[0])

	for _, entry := range entries[1:] {
		last := &result[len(result)-1]
		if util.Normalize(entry.Text) == util.Normalize(last.Text) {
			if entry.End > last.End {
				last.End = entry.End
			}
			continue
		}
		result = append(result, entry)
	}

	return result
}

// Transcript joins entry text with single spaces, timing dropped.
func Transcript(entries []domain.CaptionEntry) string {
	parts := make([]string, len(entries))
	for i, entry := range entries {
		parts[i] = entry.Text
	}
	return strings.Join(parts, " ")
}

// TimedTranscript keeps a canonical timestamp prefix per entry, one entry
// per line, for callers that want timing retained.
func TimedTranscript(entries []domain.CaptionEntry) string {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = "[" + domain.FormatTimestamp(entry.Start) + "] " + entry.Text
	}
	return strings.Join(lines, "\n")
}

func cueTime(hours, minutes, seconds, millis string) time.Duration {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)

	// Millisecond fields shorter than three digits are zero-padded on the
	// right ("35" means 350ms).
	for len(millis) < 3 {
		millis += "0"
	}
	ms, _ := strconv.Atoi(millis)

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
}
