package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bedtime-server/internal/auth"
	"bedtime-server/internal/domain"
	"bedtime-server/internal/mocks"
	"bedtime-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunToken(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runToken("s3cret", domain.User{ID: "user-7", Email: "a@b.c"}, time.Hour, &out))

	verifier, err := auth.NewJWTVerifier("s3cret", zap.NewNop())
	require.NoError(t, err)
	session, err := verifier.Verify(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "user-7", session.User.ID)

	assert.Error(t, runToken("s3cret", domain.User{}, time.Hour, &out))
}

func TestRunExport(t *testing.T) {
	stories := &mocks.MockStoryService{}
	stories.On("ExportPDF", mock.Anything, "u1", "s1").
		Return(&service.PDFExport{Filename: "the-fox.pdf", Data: []byte("%PDF-1.3")}, nil)
	stories.On("ExportPDF", mock.Anything, "u1", "missing").Return(nil, domain.ErrStoryNotFound)

	var stdout bytes.Buffer
	require.NoError(t, runExport(context.Background(), stories, "u1", "s1", "-", &stdout))
	assert.Equal(t, "%PDF-1.3", stdout.String())

	target := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, runExport(context.Background(), stories, "u1", "s1", target, &stdout))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3"), data)

	err = runExport(context.Background(), stories, "u1", "missing", target, &stdout)
	assert.ErrorIs(t, err, domain.ErrStoryNotFound)
}
