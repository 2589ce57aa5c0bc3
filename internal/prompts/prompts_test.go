package prompts_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Counts(t *testing.T) {
	cat := prompts.Default()

	assert.Equal(t, 150, cat.WordCount(domain.LengthShort))
	assert.Equal(t, 300, cat.WordCount(domain.LengthMedium))
	assert.Equal(t, 500, cat.WordCount(domain.LengthLong))
	assert.Equal(t, 500, cat.WordCount(""))

	assert.Equal(t, 2, cat.ImageCount(domain.LengthShort))
	assert.Equal(t, 3, cat.ImageCount(domain.LengthMedium))
	assert.Equal(t, 5, cat.ImageCount(domain.LengthLong))
	assert.Equal(t, 5, cat.ImageCount("epic"))
}

func TestLoad(t *testing.T) {
	t.Run("env and defaults", func(t *testing.T) {
		cat, err := prompts.Load("")
		require.NoError(t, err)
		assert.Equal(t, prompts.Default().StorySystem, cat.StorySystem)
		assert.Equal(t, 300, cat.MediumWords)
	})

	t.Run("yaml overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yml")
		require.NoError(t, os.WriteFile(path, []byte("short_words: 120\ntitle_system: Name the story.\n"), 0o600))

		cat, err := prompts.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 120, cat.ShortWords)
		assert.Equal(t, 300, cat.MediumWords)
		assert.Equal(t, "Name the story.", cat.TitleSystem)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompts.yml")
		require.NoError(t, os.WriteFile(path, []byte("long_images: -1\n"), 0o600))

		_, err := prompts.Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := prompts.Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})
}

func TestStoryPrompt(t *testing.T) {
	cat := prompts.Default()
	req := domain.StoryRequest{Age: "4-6", Characters: "a fox", Setting: "a forest", Moral: "sharing", Length: domain.LengthMedium}

	got := cat.StoryPrompt(req)
	assert.Equal(t, `Create a children's bedtime story with the following requirements:
- Age range: 4-6 years old
- Main characters: a fox
- Setting: a forest
- Moral lesson: sharing
- Target length: approximately 300 words
- Style: engaging, age-appropriate, with clear moral lesson
- Format: Include paragraphs separated by newlines
- Tone: warm, comforting, and suitable for bedtime reading`, got)

	req.Tone = "silly"
	assert.True(t, strings.HasSuffix(cat.StoryPrompt(req), "- Tone: silly"))
}

func TestStoryPrompt_Continuation(t *testing.T) {
	cat := prompts.Default()
	req := domain.StoryRequest{
		Age: "5-10", Characters: "a fox", Setting: "a forest", Moral: "sharing",
		Continuation: true, PreviousStory: "The fox found a berry.", Prompt: "The fox meets an owl.",
	}

	got := cat.StoryPrompt(req)
	assert.Contains(t, got, `"The fox found a berry."`)
	assert.Contains(t, got, "Direction for the next part: The fox meets an owl.")
	assert.Contains(t, got, cat.ContinuationNote)
}

func TestTitlePrompt(t *testing.T) {
	cat := prompts.Default()
	got := cat.TitlePrompt(domain.StoryRequest{Characters: "a fox", Setting: "a forest", Moral: "sharing"})
	assert.Equal(t, "Generate a short, engaging title for a children's story about a fox in a forest that teaches about sharing.", got)
}

func TestImagePrompt(t *testing.T) {
	cat := prompts.Default()
	meta := map[string]string{"characters": "Pip the mouse", "age": "3-5", "moral": "courage"}

	got := cat.ImagePrompt(meta, strings.Repeat("x", 150))
	assert.Contains(t, got, "featuring Pip the mouse.")
	assert.Contains(t, got, `"`+strings.Repeat("x", 100)+`..."`)
	assert.Contains(t, got, "children aged 3-5")
	assert.Contains(t, got, "a story about courage")
}

func TestContinuationRequest(t *testing.T) {
	cat := prompts.Default()
	prev := &domain.Story{
		Content:  strings.Repeat("a", 250),
		Metadata: map[string]string{"characters": "Pip", "setting": ""},
	}

	t.Run("metadata and fallbacks", func(t *testing.T) {
		req := cat.ContinuationRequest(prev, prompts.ContinuationOverrides{})
		assert.Equal(t, "5-10", req.Age)
		assert.Equal(t, "Pip", req.Characters)
		assert.Equal(t, "same setting", req.Setting)
		assert.Equal(t, "continuing the previous lesson", req.Moral)
		assert.Equal(t, domain.LengthMedium, req.Length)
		assert.True(t, req.Continuation)
		assert.Equal(t, strings.Repeat("a", 200)+"...", req.PreviousStory)
		assert.Equal(t, req.PreviousStory, req.Prompt)
	})

	t.Run("overrides win", func(t *testing.T) {
		req := cat.ContinuationRequest(prev, prompts.ContinuationOverrides{Characters: "Pip and Owl", Moral: "patience", Prompt: "a storm comes"})
		assert.Equal(t, "Pip and Owl", req.Characters)
		assert.Equal(t, "patience", req.Moral)
		assert.Equal(t, "a storm comes", req.Prompt)
	})
}
