// Package ai talks to the language model that writes stories and titles.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bedtime-server/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GenerationParams overrides model defaults. Nil means "use the default".
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
}

// UsageInfo содержит информацию об использовании токенов
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool
}

// TextGenerator produces one completion for a system and user prompt.
// Errors wrap domain.ErrGenerationFailed.
type TextGenerator interface {
	GenerateText(ctx context.Context, userID, systemPrompt, userInput string, params GenerationParams) (string, UsageInfo, error)
}

// Config selects and tunes the backend.
type Config struct {
	ClientType string
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
}

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_ai_requests_total",
			Help: "Total number of requests to the language model.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bedtime_ai_request_duration_seconds",
			Help:    "Histogram of language model request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiTotalTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bedtime_ai_total_tokens",
			Help:    "Histogram of total token counts (prompt + completion).",
			Buckets: prometheus.LinearBuckets(100, 100, 15),
		},
		[]string{"model"},
	)
)

// NewTextGenerator создает клиента в зависимости от конфигурации.
func NewTextGenerator(cfg Config, logger *zap.Logger) (TextGenerator, error) {
	switch strings.ToLower(cfg.ClientType) {
	case "openai":
		openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			openaiConfig.BaseURL = cfg.BaseURL
		}
		openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
		logger.Info("OpenAI client created", zap.String("base_url", openaiConfig.BaseURL), zap.String("model", cfg.Model), zap.Duration("timeout", cfg.Timeout))
		return &openAIClient{
			client: openaigo.NewClientWithConfig(openaiConfig),
			model:  cfg.Model,
			logger: logger.Named("OpenAIClient"),
		}, nil
	case "ollama":
		return newOllamaClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI client type: '%s'", cfg.ClientType)
	}
}

func generationFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrGenerationFailed, fmt.Sprintf(format, args...))
}

func float32Val(f *float64) float32 {
	if f == nil {
		return 0
	}
	return float32(*f)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
