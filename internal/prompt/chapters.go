package prompt

import (
	"os"
	"strings"

	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/internal/util"
	"github.com/kanno/yt-chapters-go/pkg/errors"
)

// DefaultInstructions is the built-in instruction block, replaceable via
// --prompt.
const DefaultInstructions = `Your goal is to create a block of text in YouTube chapter format only.

User provides:
* Title and description from a YouTube video
* Transcript from the video
* Live chat log from the video (if available)

Please create a list of timestamps in YouTube description format that can be pasted directly into the video description to generate chapter markers. It should list the time a topic starts and a concise but descriptive topic name.

Follow these guidelines:
* Format each line exactly as: [timestamp] [chapter title] (e.g., "0:00 Introduction")
* Include 5-10 chapters depending on video length (more chapters for longer videos)
* Focus on major topic changes, demos, segments, or guest introductions
* Make chapter titles descriptive but concise (2-5 words is ideal)
* Start with a chapter at 0:00 (required by YouTube)
* Do not use backticks or other formatting in your response
* Do not include any explanatory text before or after the chapter markers

Suggest three hashtags for the end of the description, appropriate for the video content.`

// ChapterPromptVars holds the sections assembled into the generation prompt.
type ChapterPromptVars struct {
	Instructions string
	Title        string
	Description  string
	Transcript   string
	Chat         string
	ChatURLs     string
}

// BuildChapterPrompt composes the single prompt string sent to the model.
// It fails with an InputError when both the transcript and the chat text are
// empty, since there is no material to generate chapters from.
func BuildChapterPrompt(vars ChapterPromptVars) (string, error) {
	if strings.TrimSpace(vars.Transcript) == "" && strings.TrimSpace(vars.Chat) == "" {
		return "", errors.NewInputError("neither subtitles nor live chat text is available; at least one is required to generate chapters")
	}

	if strings.TrimSpace(vars.Instructions) == "" {
		vars.Instructions = DefaultInstructions
	}

	vars.Transcript = util.ClampRunes(vars.Transcript, constants.PromptLimits.MaxTranscriptChars)
	vars.Chat = util.ClampRunes(vars.Chat, constants.PromptLimits.MaxChatChars)

	return DefaultPromptBuilder().Render(TemplateChapterPrompt, vars)
}

// LoadInstructionsFile reads a user-supplied instruction template, replacing
// the built-in one verbatim.
func LoadInstructionsFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewInputError("failed to read prompt file " + path).WithCause(err)
	}
	return string(content), nil
}
