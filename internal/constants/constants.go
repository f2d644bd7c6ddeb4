package constants

import "time"

// DefaultGeminiModel is the flash-tier model used when --model is not given.
const DefaultGeminiModel = "gemini-2.5-flash"

// ModelAliases maps short command-line names to full model identifiers.
// Unrecognized names are passed through to the client verbatim.
var ModelAliases = map[string]string{
	"flash":          "gemini-2.5-flash",
	"flash-lite":     "gemini-2.5-flash-lite",
	"pro":            "gemini-2.5-pro",
	"gemini-2.5-pro": "gemini-2.5-pro",
	"gemini-1.5-pro": "gemini-1.5-pro",
}

// ResolveModelAlias resolves a short model name to its full identifier.
func ResolveModelAlias(name string) string {
	if full, ok := ModelAliases[name]; ok {
		return full
	}
	return name
}

var PromptLimits = struct {
	MaxTranscriptChars int
	MaxChatChars       int
	MaxURLLines        int
}{
	MaxTranscriptChars: 100_000, // transcript share of the prompt
	MaxChatChars:       10_000,  // live chat share of the prompt
	MaxURLLines:        100,
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var GenerationConfig = struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
	RequestTimeout  time.Duration
}{
	Temperature:     0.7,
	TopP:            0.95,
	TopK:            40,
	MaxOutputTokens: 8192,
	RequestTimeout:  10 * time.Minute, // outer bound on a single generation call
}

var DownloaderConfig = struct {
	BinaryName     string
	CommandTimeout time.Duration
	LiveChatTrack  string
}{
	BinaryName:     "yt-dlp",
	CommandTimeout: 5 * time.Minute,
	LiveChatTrack:  "live_chat",
}
