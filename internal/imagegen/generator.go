// Package imagegen asks an image model for story illustrations.
package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bedtime-server/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Image is one generated picture.
type Image struct {
	Data        []byte
	ContentType string
}

// Generator renders a single prompt. Errors wrap domain.ErrImageGenerationFailed,
// or domain.ErrImagesDisabled when no provider is configured.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// Config selects and tunes the provider.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Providers.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderFireworks = "fireworks"
)

var (
	imageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bedtime_image_requests_total",
			Help: "Total number of requests to the image model.",
		},
		[]string{"provider", "status"},
	)
	imageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bedtime_image_request_duration_seconds",
			Help:    "Histogram of image model request durations.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"provider"},
	)
)

// New builds the generator named by cfg.Provider.
func New(cfg Config, logger *zap.Logger) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderFireworks:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("fireworks image provider requires an API key")
		}
		return newFireworksGenerator(cfg, logger), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai image provider requires an API key")
		}
		return newOpenAIGenerator(cfg, logger), nil
	case ProviderNone, "":
		logger.Info("Image generation disabled")
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown image provider: '%s'", cfg.Provider)
	}
}

// Disabled refuses every prompt.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (*Image, error) {
	return nil, domain.ErrImagesDisabled
}

func generationFailed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrImageGenerationFailed, fmt.Sprintf(format, args...))
}

func observe(provider string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	imageRequestsTotal.WithLabelValues(provider, status).Inc()
	imageRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
