package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bedtime-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFireworksGenerator_Generate(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer fw-key", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Accept"))

		var body fireworksRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a sleepy fox", body.Prompt)
		assert.Equal(t, 1024, body.Height)
		assert.Equal(t, 1024, body.Width)
		assert.Equal(t, 0, body.Seed)

		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpeg)
	}))
	defer srv.Close()

	gen, err := New(Config{Provider: ProviderFireworks, BaseURL: srv.URL, APIKey: "fw-key", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	img, err := gen.Generate(context.Background(), "a sleepy fox")
	require.NoError(t, err)
	assert.Equal(t, jpeg, img.Data)
	assert.Equal(t, "image/jpeg", img.ContentType)
}

func TestFireworksGenerator_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	gen, err := New(Config{Provider: ProviderFireworks, BaseURL: srv.URL, APIKey: "k", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrImageGenerationFailed)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "b64_json", body["response_format"])
		assert.Equal(t, "dall-e-3", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer srv.Close()

	gen, err := New(Config{Provider: ProviderOpenAI, BaseURL: srv.URL + "/v1", APIKey: "sk", Model: "dall-e-3", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	img, err := gen.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestNew(t *testing.T) {
	gen, err := New(Config{Provider: ProviderNone}, zap.NewNop())
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrImagesDisabled)

	_, err = New(Config{Provider: ProviderFireworks}, zap.NewNop())
	assert.Error(t, err, "missing key")

	_, err = New(Config{Provider: "midjourney", APIKey: "k"}, zap.NewNop())
	assert.Error(t, err)
}
