package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/internal/domain"
	"github.com/kanno/yt-chapters-go/internal/util"
	"github.com/kanno/yt-chapters-go/pkg/errors"
	"go.uber.org/zap"
)

// DownloadResult carries typed handles for the files the downloader left
// behind. Either path may be empty when the corresponding track does not
// exist, but never both.
type DownloadResult struct {
	Info        *domain.VideoInfo
	CaptionPath string
	ChatPath    string
}

// YtDlpClient drives the external yt-dlp tool to fetch video metadata, a
// subtitle track, and a live chat dump.
type YtDlpClient struct {
	path    string
	workDir string
	lang    string
	logger  *zap.Logger
}

type YtDlpConfig struct {
	Path         string
	WorkDir      string
	SubtitleLang string
}

func NewYtDlpClient(cfg YtDlpConfig, logger *zap.Logger) *YtDlpClient {
	path := cfg.Path
	if path == "" {
		if p, err := exec.LookPath(constants.DownloaderConfig.BinaryName); err == nil {
			path = p
		} else {
			path = constants.DownloaderConfig.BinaryName
		}
	}

	lang := cfg.SubtitleLang
	if lang == "" {
		lang = "en"
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}

	return &YtDlpClient{
		path:    path,
		workDir: workDir,
		lang:    lang,
		logger:  logger,
	}
}

// Fetch retrieves metadata plus whichever of the subtitle track and live chat
// dump the video has. It fails with a DownloadError when metadata cannot be
// retrieved or when neither file is produced.
func (c *YtDlpClient) Fetch(ctx context.Context, videoURL string) (*DownloadResult, error) {
	c.logger.Info("Retrieving video metadata", zap.String("url", videoURL))

	infoOut, err := c.run(ctx, "--skip-download", "--no-playlist", "--dump-json", videoURL)
	if err != nil {
		return nil, errors.NewDownloadError("failed to retrieve video information", err)
	}

	var info domain.VideoInfo
	if err := json.Unmarshal(infoOut, &info); err != nil {
		return nil, errors.NewDownloadError("failed to decode video information", err)
	}
	if info.ID == "" {
		return nil, errors.NewDownloadError("video information has no id", nil)
	}

	c.logger.Info("Video metadata retrieved",
		zap.String("id", info.ID),
		zap.String("title", info.Title),
	)

	// Commands already run inside workDir, so the template stays relative.
	outputTemplate := "%(id)s.%(ext)s"

	c.logger.Info("Downloading subtitles", zap.String("lang", c.lang))
	if _, err := c.run(ctx,
		"--skip-download", "--no-playlist",
		"--write-subs", "--write-auto-subs",
		"--sub-lang", c.lang,
		"--convert-subs", "srt",
		"-o", outputTemplate,
		videoURL,
	); err != nil {
		c.logger.Warn("Subtitle download failed", zap.Error(err))
	}

	c.logger.Info("Downloading live chat (if available)")
	if _, err := c.run(ctx,
		"--skip-download", "--no-playlist",
		"--write-subs",
		"--sub-lang", constants.DownloaderConfig.LiveChatTrack,
		"-o", outputTemplate,
		videoURL,
	); err != nil {
		c.logger.Warn("Live chat download failed", zap.Error(err))
	}

	result := &DownloadResult{
		Info:        &info,
		CaptionPath: c.firstExisting(captionCandidates(info.ID, c.lang)),
		ChatPath:    c.firstExisting([]string{info.ID + ".live_chat.json"}),
	}

	if result.CaptionPath == "" && result.ChatPath == "" {
		return nil, errors.NewDownloadError(
			"neither subtitles nor live chat could be retrieved; at least one is required", nil)
	}

	if result.CaptionPath != "" {
		c.logger.Info("Using subtitle file", zap.String("path", result.CaptionPath))
	} else {
		c.logger.Warn("No subtitle file found")
	}
	if result.ChatPath != "" {
		c.logger.Info("Using live chat file", zap.String("path", result.ChatPath))
	} else {
		c.logger.Warn("No live chat file found")
	}

	return result, nil
}

func (c *YtDlpClient) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DownloaderConfig.CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Dir = c.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("Running downloader",
		zap.String("binary", c.path),
		zap.Strings("args", args),
	)

	if err := cmd.Run(); err != nil {
		detail := util.TruncateString(strings.TrimSpace(stderr.String()), 500)
		if detail != "" {
			return nil, fmt.Errorf("%s: %w (%s)", constants.DownloaderConfig.BinaryName, err, detail)
		}
		return nil, fmt.Errorf("%s: %w", constants.DownloaderConfig.BinaryName, err)
	}

	return stdout.Bytes(), nil
}

func (c *YtDlpClient) firstExisting(names []string) string {
	for _, name := range names {
		path := filepath.Join(c.workDir, name)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path
		}
	}
	return ""
}

// captionCandidates lists the filenames the subtitle download can produce,
// in preference order. --convert-subs normally yields .srt but the original
// .vtt survives when conversion is skipped.
func captionCandidates(videoID, lang string) []string {
	return []string{
		fmt.Sprintf("%s.%s.srt", videoID, lang),
		fmt.Sprintf("%s.%s.vtt", videoID, lang),
		videoID + ".srt",
		videoID + ".vtt",
	}
}
