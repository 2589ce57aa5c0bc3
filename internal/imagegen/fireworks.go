package imagegen

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// fireworksRequest is the Stable Diffusion XL text-to-image body.
type fireworksRequest struct {
	Prompt string `json:"prompt"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
	Seed   int    `json:"seed"`
}

const fireworksImageSide = 1024

type fireworksGenerator struct {
	client   *resty.Client
	endpoint string
	logger   *zap.Logger
}

func newFireworksGenerator(cfg Config, logger *zap.Logger) *fireworksGenerator {
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "image/jpeg")
	logger.Info("Fireworks image client created", zap.String("endpoint", cfg.BaseURL), zap.Duration("timeout", cfg.Timeout))
	return &fireworksGenerator{client: c, endpoint: cfg.BaseURL, logger: logger.Named("FireworksImages")}
}

func (g *fireworksGenerator) Generate(ctx context.Context, prompt string) (img *Image, err error) {
	start := time.Now()
	defer func() { observe(ProviderFireworks, start, err) }()

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(fireworksRequest{Prompt: prompt, Height: fireworksImageSide, Width: fireworksImageSide, Seed: 0}).
		Post(g.endpoint)
	if err != nil {
		g.logger.Error("Fireworks request failed", zap.Error(err))
		return nil, generationFailed("fireworks request: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		g.logger.Warn("Fireworks returned non-200 status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 300)))
		return nil, generationFailed("fireworks status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, generationFailed("fireworks returned empty body")
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	g.logger.Debug("Image received", zap.Int("size_bytes", len(body)), zap.String("content_type", contentType))
	return &Image{Data: body, ContentType: contentType}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
