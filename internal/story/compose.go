package story

import "bedtime-server/internal/domain"

// BlockKind distinguishes the two kinds of document blocks.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
)

// Block is one element of an illustrated document, in reading order.
// Text blocks carry ParagraphIndex and Text, image blocks ImageIndex and URL.
type Block struct {
	Kind           BlockKind `json:"type"`
	ParagraphIndex int       `json:"paragraphIndex"`
	Text           string    `json:"text,omitempty"`
	ImageIndex     int       `json:"imageIndex"`
	URL            string    `json:"url,omitempty"`
}

// Compose interleaves paragraphs and images: every paragraph is emitted in
// order, and after each odd-indexed paragraph i the image i/2 follows when
// it exists. Images beyond the available slots are not placed.
func Compose(paragraphs []string, images []string) []Block {
	blocks := make([]Block, 0, len(paragraphs)+PlacedImages(len(paragraphs), len(images)))
	for i, text := range paragraphs {
		blocks = append(blocks, Block{Kind: BlockText, ParagraphIndex: i, Text: text})
		if i%2 == 1 && i/2 < len(images) {
			slot := i / 2
			blocks = append(blocks, Block{Kind: BlockImage, ImageIndex: slot, URL: images[slot]})
		}
	}
	return blocks
}

// ComposeStory splits the stored content and composes it with the images.
func ComposeStory(s *domain.Story) []Block {
	return Compose(SplitParagraphs(s.Content), s.Images)
}

// PlacedImages is the number of image blocks Compose emits for n paragraphs
// and m images.
func PlacedImages(n, m int) int {
	return min(m, n/2)
}

// DroppedImages is the number of images Compose leaves out.
func DroppedImages(n, m int) int {
	return m - PlacedImages(n, m)
}

// ImageParagraphIndex picks the paragraph that describes illustration k of
// total for a story of n paragraphs.
func ImageParagraphIndex(k, total, n int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	idx := k * n / total
	if idx >= n {
		idx = n - 1
	}
	return idx
}
