package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/internal/util"
	"github.com/kanno/yt-chapters-go/pkg/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ModelManager is the generation client: Gemini primary, with an optional
// OpenAI fallback when a key is configured. Transient failures are retried
// with exponential backoff; authentication and quota failures are fatal on
// the first occurrence.
type ModelManager struct {
	geminiClient   *genai.Client
	openaiClient   *openai.Client
	logger         *zap.Logger
	geminiModel    string
	openaiModel    string
	enableFallback bool
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	GeminiModel    string
	OpenAIModel    string
	EnableFallback bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewRemoteError("failed to create Gemini client", err)
	}

	geminiModel := cfg.GeminiModel
	if geminiModel == "" {
		geminiModel = constants.DefaultGeminiModel
	}

	openaiModel := cfg.OpenAIModel
	if openaiModel == "" {
		openaiModel = "gpt-4.1-mini"
	}

	mm := &ModelManager{
		geminiClient:   geminiClient,
		logger:         logger,
		geminiModel:    geminiModel,
		openaiModel:    openaiModel,
		enableFallback: cfg.EnableFallback && cfg.OpenAIAPIKey != "",
	}

	if mm.enableFallback {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		mm.openaiClient = &client
		logger.Info("OpenAI fallback enabled", zap.String("model", openaiModel))
	}

	return mm, nil
}

// GenerateText sends the prompt and returns the model's raw text response.
func (mm *ModelManager) GenerateText(ctx context.Context, promptText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GenerationConfig.RequestTimeout)
	defer cancel()

	attempts := constants.RetryConfig.MaxAttempts
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		text, err := mm.generateWithGemini(ctx, promptText)
		if err == nil {
			return text, nil
		}

		if mm.openaiClient != nil {
			fallbackText, fallbackErr := mm.generateWithOpenAI(ctx, promptText)
			if fallbackErr == nil {
				mm.logger.Info("Fallback provider succeeded",
					zap.String("model", mm.openaiModel),
				)
				return fallbackText, nil
			}
			mm.logger.Warn("Fallback provider failed", zap.Error(fallbackErr))
		}

		if !IsTransientFailure(err) {
			return "", errors.NewRemoteError("generation request failed", err)
		}

		lastErr = err
		if attempt < attempts-1 {
			delay := util.BackoffDelay(attempt, constants.RetryConfig.BaseDelay, constants.RetryConfig.Jitter)
			mm.logger.Warn("Transient generation failure, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			if sleepErr := util.SleepContext(ctx, delay); sleepErr != nil {
				return "", errors.NewRemoteError("generation cancelled", sleepErr)
			}
		}
	}

	return "", errors.NewRetryExhaustedError("generation failed after retries", attempts, lastErr)
}

func (mm *ModelManager) generateWithGemini(ctx context.Context, promptText string) (string, error) {
	temperature := constants.GenerationConfig.Temperature
	topP := constants.GenerationConfig.TopP
	topK := float32(constants.GenerationConfig.TopK)

	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: int32(constants.GenerationConfig.MaxOutputTokens),
	}

	mm.logger.Debug("Generating with Gemini",
		zap.String("model", mm.geminiModel),
		zap.Int("prompt_length", len(promptText)),
	)

	resp, err := mm.geminiClient.Models.GenerateContent(ctx, mm.geminiModel, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: promptText},
			},
		},
	}, genConfig)

	if err != nil {
		mm.logger.Error("Gemini generation failed", zap.Error(err))
		return "", err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	mm.logger.Debug("Gemini response received", zap.Int("length", len(text)))
	return text, nil
}

func (mm *ModelManager) generateWithOpenAI(ctx context.Context, promptText string) (string, error) {
	if mm.openaiClient == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	var model openai.ChatModel
	switch mm.openaiModel {
	case "gpt-5-mini":
		model = openai.ChatModelGPT5Mini
	case "gpt-5":
		model = openai.ChatModelGPT5
	case "gpt-4.1":
		model = openai.ChatModelGPT4_1
	case "gpt-4.1-mini":
		model = openai.ChatModelGPT4_1Mini
	case "gpt-4o":
		model = openai.ChatModelGPT4o
	case "gpt-4o-mini":
		model = openai.ChatModelGPT4oMini
	default:
		model = openai.ChatModelGPT4_1Mini
	}

	mm.logger.Info("Fallback: Generating with OpenAI", zap.String("model", mm.openaiModel))

	resp, err := mm.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(promptText),
		},
		MaxCompletionTokens: openai.Int(int64(constants.GenerationConfig.MaxOutputTokens)),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return resp.Choices[0].Message.Content, nil
}

var (
	statusPattern     = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodePattern = regexp.MustCompile(`^(\d{3})\s`)
)

// IsTransientFailure reports whether err looks like a temporary network or
// server-side failure worth retrying. Authentication and quota errors are
// deliberately excluded: retrying those cannot help.
func IsTransientFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if IsAuthOrQuotaFailure(err) {
		return false
	}

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") {
		return true
	}

	if statusPattern.MatchString(msg) {
		return true
	}

	if code, ok := embeddedStatusCode(msg); ok {
		return code >= 500 && code < 600
	}

	return false
}

// IsAuthOrQuotaFailure reports whether err is an authentication, permission
// or quota failure. These terminate the run immediately.
func IsAuthOrQuotaFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") ||
		strings.Contains(msg, "quota") || strings.Contains(msg, "API key") ||
		strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "PERMISSION_DENIED") || strings.Contains(msg, "UNAUTHENTICATED") {
		return true
	}

	if code, ok := embeddedStatusCode(msg); ok {
		return code == 401 || code == 403 || code == 429
	}

	return false
}

func embeddedStatusCode(msg string) (int, bool) {
	for _, pattern := range []*regexp.Regexp{geminiCodePattern, openaiCodePattern} {
		if matches := pattern.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return code, true
			}
		}
	}
	return 0, false
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
