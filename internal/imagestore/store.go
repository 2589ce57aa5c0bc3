// Package imagestore turns generated image bytes into a URL the client can show.
package imagestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"bedtime-server/internal/imagegen"
)

// Store persists an image and returns the reference kept in Story.Images.
type Store interface {
	Save(ctx context.Context, img *imagegen.Image) (string, error)
}

// Inline encodes images as data URLs. Nothing leaves the process.
type Inline struct{}

func (Inline) Save(_ context.Context, img *imagegen.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	return DataURL(img.ContentType, img.Data), nil
}

// DataURL builds "data:<type>;base64,<payload>".
func DataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL reverses DataURL. Only base64 payloads are accepted.
func ParseDataURL(ref string) (*imagegen.Image, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	return &imagegen.Image{Data: data, ContentType: contentType}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
