// Package chapters extracts and validates chapter markers from the model's
// free-text response.
package chapters

import (
	"regexp"
	"strings"

	"github.com/kanno/yt-chapters-go/internal/domain"
	"github.com/kanno/yt-chapters-go/pkg/errors"
)

// A chapter line starts with an M:SS or H:MM:SS token followed by a space or
// a space-hyphen-space separator and a non-empty title. Everything else in
// the response is prose and is ignored.
var markerPattern = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)(?:\s+-\s+|\s+)(.+)$`)

// Models sometimes bullet their chapter lists.
var bulletPrefixPattern = regexp.MustCompile(`^[-*•]\s+`)

// ParseResponse scans the raw model response for chapter markers and hashtag
// lines, then enforces the output contract: at least one marker, the first at
// 0:00, timestamps strictly increasing. Timestamps are renormalized to the
// shortest canonical form regardless of how the model wrote them.
func ParseResponse(text string) (*domain.ChapterList, error) {
	list := &domain.ChapterList{}
	seenTags := make(map[string]bool)

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if tags, ok := hashtagLine(line); ok {
			for _, tag := range tags {
				if !seenTags[tag] {
					seenTags[tag] = true
					list.Hashtags = append(list.Hashtags, tag)
				}
			}
			continue
		}

		line = bulletPrefixPattern.ReplaceAllString(line, "")
		m := markerPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		offset, ok := domain.ParseTimestamp(m[1])
		if !ok {
			continue
		}

		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}

		list.Markers = append(list.Markers, domain.ChapterMarker{
			Offset: offset,
			Title:  title,
		})
	}

	if len(list.Markers) == 0 {
		return nil, errors.NewFormatError("model response contains no chapter markers", 0, nil)
	}

	if list.Markers[0].Offset != 0 {
		return nil, errors.NewFormatError("first chapter marker is not at 0:00", len(list.Markers), map[string]any{
			"first": domain.FormatTimestamp(list.Markers[0].Offset),
		})
	}

	for i := 1; i < len(list.Markers); i++ {
		if list.Markers[i].Offset <= list.Markers[i-1].Offset {
			return nil, errors.NewFormatError("chapter timestamps are not strictly increasing", len(list.Markers), map[string]any{
				"previous": domain.FormatTimestamp(list.Markers[i-1].Offset),
				"current":  domain.FormatTimestamp(list.Markers[i].Offset),
			})
		}
	}

	return list, nil
}

// hashtagLine reports whether the line consists solely of space-separated
// '#'-prefixed tokens, and returns them.
func hashtagLine(line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	for _, field := range fields {
		if !strings.HasPrefix(field, "#") || len(field) < 2 {
			return nil, false
		}
	}
	return fields, true
}
