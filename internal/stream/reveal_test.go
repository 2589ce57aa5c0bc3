package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"bedtime-server/internal/story"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrames_GroupsImagesWithParagraph(t *testing.T) {
	blocks := story.Compose([]string{"p0", "p1", "p2"}, []string{"img0", "img1"})

	frames := Frames(blocks)
	require.Len(t, frames, 3)
	assert.Len(t, frames[0].Blocks, 1)
	require.Len(t, frames[1].Blocks, 2)
	assert.Equal(t, story.BlockImage, frames[1].Blocks[1].Kind)
	assert.Equal(t, "img0", frames[1].Blocks[1].URL)
	assert.Equal(t, 2, frames[2].Paragraph)
}

func TestFrames_Empty(t *testing.T) {
	assert.Empty(t, Frames(nil))
}

func TestReveal_EmitsAllThenDone(t *testing.T) {
	blocks := story.Compose([]string{"a", "b", "c", "d"}, []string{"i0"})

	var got []Frame
	err := Reveal(context.Background(), blocks, time.Millisecond, func(f Frame) error {
		got = append(got, f)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 0; i < 4; i++ {
		assert.Equal(t, i, got[i].Paragraph)
		assert.False(t, got[i].Done)
	}
	assert.True(t, got[4].Done)
	assert.Empty(t, got[4].Blocks)
}

func TestReveal_Paced(t *testing.T) {
	blocks := story.Compose([]string{"a", "b", "c"}, nil)
	start := time.Now()
	require.NoError(t, Reveal(context.Background(), blocks, 20*time.Millisecond, func(Frame) error { return nil }))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestReveal_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	blocks := story.Compose([]string{"a", "b", "c"}, nil)

	calls := 0
	err := Reveal(ctx, blocks, 5*time.Millisecond, func(Frame) error {
		calls++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestReveal_StopsOnEmitError(t *testing.T) {
	boom := errors.New("client gone")
	err := Reveal(context.Background(), story.Compose([]string{"a", "b"}, nil), time.Millisecond, func(Frame) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
