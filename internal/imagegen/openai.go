package imagegen

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type openAIGenerator struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIGenerator(cfg Config, logger *zap.Logger) *openAIGenerator {
	conf := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	conf.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	logger.Info("OpenAI image client created", zap.String("base_url", conf.BaseURL), zap.String("model", cfg.Model))
	return &openAIGenerator{
		client: openaigo.NewClientWithConfig(conf),
		model:  cfg.Model,
		logger: logger.Named("OpenAIImages"),
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (img *Image, err error) {
	start := time.Now()
	defer func() { observe(ProviderOpenAI, start, err) }()

	resp, err := g.client.CreateImage(ctx, openaigo.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           openaigo.CreateImageSize1024x1024,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		g.logger.Error("OpenAI image request failed", zap.Error(err))
		return nil, generationFailed("openai image request: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, generationFailed("openai returned no image data")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, generationFailed("decode image: %v", err)
	}
	return &Image{Data: data, ContentType: "image/png"}, nil
}
