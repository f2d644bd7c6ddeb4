// Package chat parses yt-dlp live chat dumps (one JSON event per line) into
// a chronological transcript of renderable messages.
package chat

import (
	"bufio"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/creachadair/stringset"
	"github.com/kanno/yt-chapters-go/internal/domain"
	"github.com/kanno/yt-chapters-go/internal/util"
	"github.com/kanno/yt-chapters-go/pkg/errors"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

const maxLineBytes = 4 << 20

// Result holds the parsed transcript plus the distinct union of URLs seen
// across all messages.
type Result struct {
	Messages []domain.ChatMessage
	URLs     stringset.Set
	URLRefs  []domain.URLRef

	// Skipped counts lines that were not valid JSON or carried no
	// renderable chat text.
	Skipped int
}

// Parse reads a line-delimited live chat dump. Lines that fail to parse or
// lack a text-bearing event are skipped, never fatal; an empty dump is a
// valid result with zero messages.
func Parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	result := &Result{URLs: stringset.New()}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event chatEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			result.Skipped++
			continue
		}

		msg, ok := renderMessage(&event)
		if !ok {
			result.Skipped++
			continue
		}

		for _, u := range msg.URLs {
			result.URLs.Add(u)
			result.URLRefs = append(result.URLRefs, domain.URLRef{Offset: msg.Offset, URL: u})
		}
		result.Messages = append(result.Messages, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewParseError("failed to read live chat file", "live_chat", err)
	}

	return result, nil
}

// ParseFile parses the live chat dump at path.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError("failed to open live chat file", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Transcript renders the messages as "[M:SS] author: text" lines.
func (r *Result) Transcript() string {
	lines := make([]string, len(r.Messages))
	for i, msg := range r.Messages {
		lines[i] = "[" + domain.FormatTimestamp(msg.Offset) + "] " + msg.Author + ": " + msg.Text
	}
	return strings.Join(lines, "\n")
}

// GitHubURLRefs returns the chronological references to github.com URLs.
func (r *Result) GitHubURLRefs() []domain.URLRef {
	var refs []domain.URLRef
	for _, ref := range r.URLRefs {
		if strings.Contains(ref.URL, "github.com/") {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Event shapes, trimmed to the fields the replay dump actually carries.

type chatEvent struct {
	ReplayChatItemAction *replayChatItemAction `json:"replayChatItemAction"`
}

type replayChatItemAction struct {
	Actions             []replayAction `json:"actions"`
	VideoOffsetTimeMsec string         `json:"videoOffsetTimeMsec"`
}

type replayAction struct {
	AddChatItemAction *addChatItemAction `json:"addChatItemAction"`
}

type addChatItemAction struct {
	Item chatItem `json:"item"`
}

type chatItem struct {
	LiveChatTextMessageRenderer *textMessageRenderer `json:"liveChatTextMessageRenderer"`
}

type textMessageRenderer struct {
	Message       messageRuns `json:"message"`
	AuthorName    simpleText  `json:"authorName"`
	TimestampText simpleText  `json:"timestampText"`
}

type messageRuns struct {
	Runs []messageRun `json:"runs"`
}

type simpleText struct {
	SimpleText string `json:"simpleText"`
}

type messageRun struct {
	Text               string              `json:"text"`
	Emoji              *emoji              `json:"emoji"`
	NavigationEndpoint *navigationEndpoint `json:"navigationEndpoint"`
}

type emoji struct {
	Shortcuts []string   `json:"shortcuts"`
	Image     emojiImage `json:"image"`
}

type emojiImage struct {
	Accessibility struct {
		AccessibilityData struct {
			Label string `json:"label"`
		} `json:"accessibilityData"`
	} `json:"accessibility"`
}

type navigationEndpoint struct {
	URLEndpoint *struct {
		URL string `json:"url"`
	} `json:"urlEndpoint"`
}

// renderMessage extracts a ChatMessage from a replay event. Membership,
// deletion and other non-text events report ok=false.
func renderMessage(event *chatEvent) (domain.ChatMessage, bool) {
	replay := event.ReplayChatItemAction
	if replay == nil {
		return domain.ChatMessage{}, false
	}

	for _, action := range replay.Actions {
		if action.AddChatItemAction == nil {
			continue
		}
		renderer := action.AddChatItemAction.Item.LiveChatTextMessageRenderer
		if renderer == nil || len(renderer.Message.Runs) == 0 {
			continue
		}

		var text strings.Builder
		var urls []string
		for _, run := range renderer.Message.Runs {
			switch {
			case run.Text != "":
				text.WriteString(run.Text)
			case run.Emoji != nil:
				text.WriteString(emojiText(run.Emoji))
			}
			if run.NavigationEndpoint != nil && run.NavigationEndpoint.URLEndpoint != nil {
				if u := cleanURL(run.NavigationEndpoint.URLEndpoint.URL); u != "" {
					urls = append(urls, u)
				}
			}
		}

		rendered := util.CollapseWhitespace(text.String())
		if rendered == "" {
			continue
		}

		for _, match := range urlPattern.FindAllString(rendered, -1) {
			if u := cleanURL(match); u != "" {
				urls = append(urls, u)
			}
		}

		return domain.ChatMessage{
			Offset: messageOffset(replay, renderer),
			Author: strings.TrimSpace(renderer.AuthorName.SimpleText),
			Text:   rendered,
			URLs:   dedupeURLs(urls),
		}, true
	}

	return domain.ChatMessage{}, false
}

func emojiText(e *emoji) string {
	if len(e.Shortcuts) > 0 {
		return e.Shortcuts[0]
	}
	return e.Image.Accessibility.AccessibilityData.Label
}

// messageOffset derives the duration since stream start, preferring the
// millisecond offset over the rendered timestamp text.
func messageOffset(replay *replayChatItemAction, renderer *textMessageRenderer) time.Duration {
	if replay.VideoOffsetTimeMsec != "" {
		if msec, err := strconv.ParseInt(replay.VideoOffsetTimeMsec, 10, 64); err == nil {
			if msec < 0 {
				return 0
			}
			return time.Duration(msec) * time.Millisecond
		}
	}

	token := strings.TrimPrefix(strings.TrimSpace(renderer.TimestampText.SimpleText), "-")
	if d, ok := domain.ParseTimestamp(token); ok {
		return d
	}
	return 0
}

// cleanURL unwraps YouTube redirect links (the real target rides in the "q"
// query parameter) and strips trailing punctuation from plain matches.
func cleanURL(raw string) string {
	raw = strings.TrimRight(raw, ".,;:!?)")
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if target := parsed.Query().Get("q"); target != "" && strings.Contains(parsed.Path, "redirect") {
		if unwrapped, err := url.QueryUnescape(target); err == nil {
			target = unwrapped
		}
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			return target
		}
	}

	return raw
}

func dedupeURLs(urls []string) []string {
	if len(urls) < 2 {
		return urls
	}
	seen := stringset.New()
	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.Add(u) {
			result = append(result, u)
		}
	}
	return result
}
