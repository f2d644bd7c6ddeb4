package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/pkg/errors"
)

type Config struct {
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Downloader DownloaderConfig
	Logging    LoggingConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type DownloaderConfig struct {
	Path         string
	SubtitleLang string
	WorkDir      string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
			Model:  getEnv("GEMINI_MODEL", constants.DefaultGeminiModel),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Downloader: DownloaderConfig{
			Path:         getEnv("YTDLP_PATH", ""),
			SubtitleLang: getEnv("SUBTITLE_LANG", "en"),
			WorkDir:      getEnv("WORK_DIR", "."),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return errors.NewConfigError("GEMINI_API_KEY is required (set it in .env or export it in your shell)")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
