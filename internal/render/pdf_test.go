package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bedtime-server/internal/imagegen"
	"bedtime-server/internal/imagestore"
	"bedtime-server/internal/story"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pageCount(pdf []byte) int {
	return strings.Count(string(pdf), "/Type /Page\n")
}

func TestPDFRenderer_Render(t *testing.T) {
	pngData := tinyPNG(t)
	content := "Once upon a time there was a fox.\n\nShe was very sleepy.\n\nThe moon rose.\n\nThe end."
	blocks := story.Compose(story.SplitParagraphs(content), []string{
		imagestore.DataURL("image/png", pngData),
		"/placeholder.svg",
	})

	r := NewPDFRenderer(NewRefLoader(RefLoaderConfig{Timeout: time.Second}), zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), "The Sleepy Fox à la lune", blocks, &buf))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF")
	// second illustration no longer fits on the first page
	assert.Equal(t, 2, pageCount(out))
}

func TestPDFRenderer_BreaksPages(t *testing.T) {
	long := strings.Repeat("The little owl counted the stars one by one. ", 40)
	paragraphs := make([]string, 12)
	for i := range paragraphs {
		paragraphs[i] = long
	}
	blocks := story.Compose(paragraphs, nil)

	var buf bytes.Buffer
	r := NewPDFRenderer(NewRefLoader(RefLoaderConfig{Timeout: time.Second}), zap.NewNop())
	require.NoError(t, r.Render(context.Background(), "Long Night", blocks, &buf))
	assert.Greater(t, pageCount(buf.Bytes()), 1)
}

func TestPDFRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewPDFRenderer(NewRefLoader(RefLoaderConfig{Timeout: time.Second}), zap.NewNop())
	err := r.Render(ctx, "t", story.Compose([]string{"a"}, nil), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

type staticLoader map[string]*imagegen.Image

func (l staticLoader) Load(_ context.Context, ref string) (*imagegen.Image, error) {
	if img, ok := l[ref]; ok {
		return img, nil
	}
	return nil, ErrNotLoadable
}

func wide16BitPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA64(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA64{R: 0xFFFF, G: 0x8000, B: 0x1000, A: 0xFFFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	// IHDR bit depth
	require.Equal(t, byte(16), buf.Bytes()[24])
	return buf.Bytes()
}

func TestPDFRenderer_SixteenBitPNG(t *testing.T) {
	loader := staticLoader{"deep.png": {Data: wide16BitPNG(t), ContentType: "image/png"}}
	r := NewPDFRenderer(loader, zap.NewNop())

	var buf bytes.Buffer
	blocks := story.Compose([]string{"First.", "Second."}, []string{"deep.png"})
	require.NoError(t, r.Render(context.Background(), "Deep Colours", blocks, &buf))
	assert.Equal(t, 1, pageCount(buf.Bytes()))
}

func TestPDFRenderer_UnreadableImageUsesPlaceholder(t *testing.T) {
	loader := staticLoader{
		"broken.png": {Data: []byte("\x89PNG\r\n\x1a\nnot really"), ContentType: "image/png"},
		"broken.jpg": {Data: []byte{0xFF, 0xD8, 0xFF, 0x00}, ContentType: "image/jpeg"},
	}
	r := NewPDFRenderer(loader, zap.NewNop())

	var buf bytes.Buffer
	blocks := story.Compose([]string{"a", "b", "c", "d"}, []string{"broken.png", "broken.jpg"})
	require.NoError(t, r.Render(context.Background(), "Broken", blocks, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestToPNG8(t *testing.T) {
	out, err := toPNG8(wide16BitPNG(t))
	require.NoError(t, err)
	assert.Equal(t, byte(8), out[24])

	_, err = toPNG8([]byte("nope"))
	assert.Error(t, err)
}

func TestRefLoader(t *testing.T) {
	pngData := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bucket/missing.png":
			http.NotFound(w, r)
		case "/bucket/huge.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(bytes.Repeat([]byte{0}, 4096))
		default:
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		}
	}))
	defer srv.Close()

	l := NewRefLoader(RefLoaderConfig{
		Timeout:         time.Second,
		MaxBytes:        1024,
		AllowedBaseURLs: []string{srv.URL + "/bucket/", "::not a url"},
	})
	ctx := context.Background()

	img, err := l.Load(ctx, srv.URL+"/bucket/fox.png")
	require.NoError(t, err)
	assert.Equal(t, pngData, img.Data)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = l.Load(ctx, srv.URL+"/bucket/missing.png")
	assert.Error(t, err)

	_, err = l.Load(ctx, srv.URL+"/bucket/huge.png")
	assert.Error(t, err, "bodies over the limit are refused")

	img, err = l.Load(ctx, imagestore.DataURL("image/png", pngData))
	require.NoError(t, err)
	assert.Equal(t, pngData, img.Data)

	for _, ref := range []string{
		"/placeholder.svg",
		srv.URL + "/admin/secrets.png",
		srv.URL + "/bucket/../admin.png",
		"http://169.254.169.254/latest/meta-data",
		"http://127.0.0.1:1/bucket/fox.png",
	} {
		_, err = l.Load(ctx, ref)
		assert.ErrorIs(t, err, ErrNotLoadable, ref)
	}
}

func TestRefLoader_NoAllowedHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected fetch of %s", r.URL)
	}))
	defer srv.Close()

	_, err := NewRefLoader(RefLoaderConfig{Timeout: time.Second}).Load(context.Background(), srv.URL+"/fox.png")
	assert.ErrorIs(t, err, ErrNotLoadable)
}

func TestPlaceholder(t *testing.T) {
	data, err := Placeholder()
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, placeholderWidth, cfg.Width)
	assert.Equal(t, placeholderHeight, cfg.Height)
}

func TestFitImage(t *testing.T) {
	w, h := fitImage(1024, 1024)
	assert.InDelta(t, imageMaxHeight, h, 0.001)
	assert.InDelta(t, imageMaxHeight, w, 0.001)

	w, h = fitImage(2000, 500)
	assert.InDelta(t, imageMaxWidth, w, 0.001)
	assert.Less(t, h, imageMaxHeight)
}
