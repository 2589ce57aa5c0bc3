package render

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bedtime-server/internal/imagegen"
	"bedtime-server/internal/imagestore"

	"github.com/go-resty/resty/v2"
)

// ErrNotLoadable marks references that point at no real picture, such as the
// placeholder path, or at a host the server must not fetch from.
var ErrNotLoadable = errors.New("image reference is not loadable")

// DefaultMaxImageBytes caps a downloaded illustration.
const DefaultMaxImageBytes = 10 << 20

// ImageLoader resolves a stored image reference to bytes.
type ImageLoader interface {
	Load(ctx context.Context, ref string) (*imagegen.Image, error)
}

// RefLoaderConfig limits what RefLoader downloads. Only http(s) references
// under one of AllowedBaseURLs are fetched; data URLs always load.
type RefLoaderConfig struct {
	Timeout         time.Duration
	MaxBytes        int
	AllowedBaseURLs []string
}

// RefLoader decodes data URLs and downloads http(s) references from the
// image store.
type RefLoader struct {
	client  *resty.Client
	allowed []*url.URL
}

// NewRefLoader creates a RefLoader. Unparseable base URLs are ignored.
func NewRefLoader(cfg RefLoaderConfig) *RefLoader {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxImageBytes
	}
	l := &RefLoader{
		client: resty.New().
			SetTimeout(cfg.Timeout).
			SetResponseBodyLimit(cfg.MaxBytes).
			SetRedirectPolicy(resty.NoRedirectPolicy()),
	}
	for _, raw := range cfg.AllowedBaseURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		l.allowed = append(l.allowed, u)
	}
	return l
}

func (l *RefLoader) Load(ctx context.Context, ref string) (*imagegen.Image, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return imagestore.ParseDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if !l.permits(ref) {
			return nil, fmt.Errorf("%w: host not allowed: %q", ErrNotLoadable, ref)
		}
		resp, err := l.client.R().SetContext(ctx).Get(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode())
		}
		ct := resp.Header().Get("Content-Type")
		if ct == "" {
			ct = http.DetectContentType(resp.Body())
		}
		return &imagegen.Image{Data: resp.Body(), ContentType: ct}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotLoadable, ref)
	}
}

func (l *RefLoader) permits(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.User != nil || strings.Contains(u.Path, "..") {
		return false
	}
	for _, base := range l.allowed {
		if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
			continue
		}
		prefix := strings.TrimSuffix(base.Path, "/") + "/"
		if base.Path == "" || base.Path == "/" || strings.HasPrefix(u.Path, prefix) {
			return true
		}
	}
	return false
}
