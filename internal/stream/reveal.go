// Package stream paces a finished story out to a reader one paragraph at a time.
package stream

import (
	"context"
	"time"

	"bedtime-server/internal/story"
)

// Frame is what the reader receives on each tick. An illustration travels
// with the paragraph it follows.
type Frame struct {
	Paragraph int           `json:"paragraph"`
	Blocks    []story.Block `json:"blocks,omitempty"`
	Done      bool          `json:"done,omitempty"`
}

// Frames groups composed blocks into one frame per paragraph.
func Frames(blocks []story.Block) []Frame {
	var frames []Frame
	for _, b := range blocks {
		if b.Kind == story.BlockText || len(frames) == 0 {
			frames = append(frames, Frame{Paragraph: b.ParagraphIndex})
		}
		last := &frames[len(frames)-1]
		last.Blocks = append(last.Blocks, b)
	}
	return frames
}

// Reveal calls emit for every frame, one per interval, then once more with
// Done set. It stops early when ctx ends or emit fails.
func Reveal(ctx context.Context, blocks []story.Block, interval time.Duration, emit func(Frame) error) error {
	frames := Frames(blocks)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := emit(f); err != nil {
			return err
		}
	}
	return emit(Frame{Paragraph: len(frames), Done: true})
}
