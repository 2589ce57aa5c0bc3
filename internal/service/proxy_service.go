package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bedtime-server/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Proxy messages.
const (
	MsgMissingURL = "Missing URL parameter"
	MsgInvalidURL = "Invalid URL format"
)

// ProxiedImage is an upstream image relayed to the browser.
type ProxiedImage struct {
	ContentType string
	Data        []byte
}

// UpstreamStatusError carries the status of a failed upstream fetch.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// ImageProxy fetches remote images on behalf of the browser.
type ImageProxy interface {
	Fetch(ctx context.Context, rawURL string) (*ProxiedImage, error)
}

type imageProxyImpl struct {
	client *resty.Client
	logger *zap.Logger
}

// NewImageProxy creates an ImageProxy with the given upstream timeout.
// Upstream bodies larger than maxBytes are refused.
func NewImageProxy(timeout time.Duration, maxBytes int, logger *zap.Logger) ImageProxy {
	return &imageProxyImpl{
		client: resty.New().SetTimeout(timeout).SetResponseBodyLimit(maxBytes),
		logger: logger.Named("ImageProxy"),
	}
}

func (p *imageProxyImpl) Fetch(ctx context.Context, rawURL string) (*ProxiedImage, error) {
	if rawURL == "" {
		return nil, domain.NewValidationError(MsgMissingURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.NewValidationError(MsgInvalidURL)
	}

	resp, err := p.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		p.logger.Warn("Image fetch failed", zap.String("host", u.Host), zap.Error(err))
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &UpstreamStatusError{Status: resp.StatusCode()}
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &ProxiedImage{ContentType: contentType, Data: resp.Body()}, nil
}
