// Package app assembles the pipeline: download, parse, prompt, generate,
// validate, write.
package app

import (
	"context"
	"strings"

	"github.com/kanno/yt-chapters-go/internal/caption"
	"github.com/kanno/yt-chapters-go/internal/chapters"
	"github.com/kanno/yt-chapters-go/internal/chat"
	"github.com/kanno/yt-chapters-go/internal/config"
	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/internal/domain"
	"github.com/kanno/yt-chapters-go/internal/output"
	"github.com/kanno/yt-chapters-go/internal/prompt"
	"github.com/kanno/yt-chapters-go/internal/service"
	"go.uber.org/zap"
)

// Downloader fetches video metadata and subtitle/chat files.
type Downloader interface {
	Fetch(ctx context.Context, videoURL string) (*service.DownloadResult, error)
}

// Generator sends a prompt to the remote model and returns its raw text.
type Generator interface {
	GenerateText(ctx context.Context, promptText string) (string, error)
}

// ArtifactWriter persists the validated output files.
type ArtifactWriter interface {
	WriteChapters(videoID string, list *domain.ChapterList) (string, error)
	WriteURLRefs(videoID string, refs []domain.URLRef) (string, error)
}

type App struct {
	downloader Downloader
	generator  Generator
	writer     ArtifactWriter
	logger     *zap.Logger

	// TimedTranscript switches the prompt transcript to per-entry
	// timestamped lines instead of flattened text.
	TimedTranscript bool
}

// Build wires the concrete collaborators from configuration.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	generator, err := service.NewModelManager(ctx, service.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		OpenAIModel:    cfg.OpenAI.Model,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, err
	}

	downloader := service.NewYtDlpClient(service.YtDlpConfig{
		Path:         cfg.Downloader.Path,
		WorkDir:      cfg.Downloader.WorkDir,
		SubtitleLang: cfg.Downloader.SubtitleLang,
	}, logger)

	return &App{
		downloader: downloader,
		generator:  generator,
		writer:     output.NewWriter(cfg.Downloader.WorkDir, logger),
		logger:     logger,
	}, nil
}

// New builds an App from explicit collaborators. Used by tests.
func New(downloader Downloader, generator Generator, writer ArtifactWriter, logger *zap.Logger) *App {
	return &App{
		downloader: downloader,
		generator:  generator,
		writer:     writer,
		logger:     logger,
	}
}

// RunResult carries the validated chapter list and where it was saved.
type RunResult struct {
	Info         *domain.VideoInfo
	List         *domain.ChapterList
	ArtifactPath string
}

// Run executes the pipeline for one video. Instructions may be empty, in
// which case the built-in template is used.
func (a *App) Run(ctx context.Context, videoURL, instructions string) (*RunResult, error) {
	download, err := a.downloader.Fetch(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	transcript := a.parseCaptions(download.CaptionPath)

	chatResult, err := a.parseChat(download.ChatPath)
	if err != nil {
		return nil, err
	}

	var chatText, urlLines string
	if chatResult != nil {
		chatText = chatResult.Transcript()

		githubRefs := chatResult.GitHubURLRefs()
		a.logger.Info("Live chat parsed",
			zap.Int("messages", len(chatResult.Messages)),
			zap.Int("skipped_lines", chatResult.Skipped),
			zap.Int("distinct_urls", chatResult.URLs.Len()),
			zap.Int("github_urls", len(githubRefs)),
		)

		if len(githubRefs) > 0 {
			if _, err := a.writer.WriteURLRefs(download.Info.ID, githubRefs); err != nil {
				a.logger.Warn("Failed to save extracted URLs", zap.Error(err))
			}
		}

		urlLines = formatURLRefs(chatResult.URLRefs)
	}

	promptText, err := prompt.BuildChapterPrompt(prompt.ChapterPromptVars{
		Instructions: instructions,
		Title:        download.Info.Title,
		Description:  download.Info.Description,
		Transcript:   transcript,
		Chat:         chatText,
		ChatURLs:     urlLines,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Generating chapter markers",
		zap.Int("prompt_length", len(promptText)),
	)

	raw, err := a.generator.GenerateText(ctx, promptText)
	if err != nil {
		return nil, err
	}

	list, err := chapters.ParseResponse(raw)
	if err != nil {
		return nil, err
	}

	path, err := a.writer.WriteChapters(download.Info.ID, list)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Info:         download.Info,
		List:         list,
		ArtifactPath: path,
	}, nil
}

// parseCaptions returns the flattened transcript, or "" when the track is
// absent or unusable. An unusable caption file is only fatal if the chat
// yields nothing either, which the prompt builder decides.
func (a *App) parseCaptions(path string) string {
	if path == "" {
		return ""
	}

	entries, err := caption.ParseFile(path)
	if err != nil {
		a.logger.Warn("Caption file unusable", zap.String("path", path), zap.Error(err))
		return ""
	}

	a.logger.Info("Captions parsed", zap.Int("entries", len(entries)))

	if a.TimedTranscript {
		return caption.TimedTranscript(entries)
	}
	return caption.Transcript(entries)
}

func (a *App) parseChat(path string) (*chat.Result, error) {
	if path == "" {
		return nil, nil
	}
	return chat.ParseFile(path)
}

func formatURLRefs(refs []domain.URLRef) string {
	if len(refs) == 0 {
		return ""
	}

	if len(refs) > constants.PromptLimits.MaxURLLines {
		refs = refs[:constants.PromptLimits.MaxURLLines]
	}

	lines := make([]string, 0, len(refs))
	for _, ref := range refs {
		lines = append(lines, domain.FormatTimestamp(ref.Offset)+" - "+ref.URL)
	}
	return strings.Join(lines, "\n")
}
