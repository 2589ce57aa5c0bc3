package prompts

import (
	"fmt"
	"strings"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/story"
)

// StoryPrompt is the user message of the story completion.
func (c *Catalog) StoryPrompt(req domain.StoryRequest) string {
	tone := req.Tone
	if tone == "" {
		tone = c.DefaultTone
	}

	var sb strings.Builder
	sb.WriteString("Create a children's bedtime story with the following requirements:\n")
	fmt.Fprintf(&sb, "- Age range: %s years old\n", req.Age)
	fmt.Fprintf(&sb, "- Main characters: %s\n", req.Characters)
	fmt.Fprintf(&sb, "- Setting: %s\n", req.Setting)
	fmt.Fprintf(&sb, "- Moral lesson: %s\n", req.Moral)
	fmt.Fprintf(&sb, "- Target length: approximately %d words\n", c.WordCount(req.Length))
	sb.WriteString("- Style: engaging, age-appropriate, with clear moral lesson\n")
	sb.WriteString("- Format: Include paragraphs separated by newlines\n")
	fmt.Fprintf(&sb, "- Tone: %s", tone)

	if req.Continuation && req.PreviousStory != "" {
		sb.WriteString("\n\nThis story is a continuation. Recap of the previous story:\n")
		fmt.Fprintf(&sb, "%q\n", req.PreviousStory)
		if req.Prompt != "" && req.Prompt != req.PreviousStory {
			fmt.Fprintf(&sb, "Direction for the next part: %s\n", req.Prompt)
		}
		sb.WriteString(c.ContinuationNote)
	}
	return sb.String()
}

// TitlePrompt is the user message of the title completion.
func (c *Catalog) TitlePrompt(req domain.StoryRequest) string {
	return fmt.Sprintf("Generate a short, engaging title for a children's story about %s in %s that teaches about %s.",
		req.Characters, req.Setting, req.Moral)
}

// ImagePrompt describes one illustration for the scene in paragraph.
func (c *Catalog) ImagePrompt(metadata map[string]string, paragraph string) string {
	characters := metadata[domain.MetaCharacters]
	scene := paragraph
	if runes := []rune(scene); len(runes) > c.SceneExcerptLength {
		scene = string(runes[:c.SceneExcerptLength])
	}
	return fmt.Sprintf("Create a child-friendly illustration for a bedtime story featuring %s. "+
		"The image should be based on this scene: \"%s...\". "+
		"The style should be colorful, gentle, and appropriate for children aged %s. "+
		"The illustration should be suitable for a story about %s. "+
		"Make sure to maintain visual consistency with the previous illustrations of %s.",
		characters, scene, metadata[domain.MetaAge], metadata[domain.MetaMoral], characters)
}

// ContinuationOverrides are optional replacements for the stored story details.
type ContinuationOverrides struct {
	Characters string `json:"newCharacters"`
	Setting    string `json:"newSetting"`
	Moral      string `json:"newMoral"`
	Prompt     string `json:"prompt"`
}

// ContinuationRequest builds the generation request that continues prev.
// Explicit overrides win over the stored metadata, which wins over the
// catalogue fallbacks.
func (c *Catalog) ContinuationRequest(prev *domain.Story, o ContinuationOverrides) domain.StoryRequest {
	recap := story.Recap(prev.Content)
	prompt := o.Prompt
	if prompt == "" {
		prompt = recap
	}
	return domain.StoryRequest{
		Age:           c.ContinuationAge,
		Characters:    firstNonEmpty(o.Characters, prev.Metadata[domain.MetaCharacters], c.FallbackCharacters),
		Setting:       firstNonEmpty(o.Setting, prev.Metadata[domain.MetaSetting], c.FallbackSetting),
		Moral:         firstNonEmpty(o.Moral, prev.Metadata[domain.MetaMoral], c.FallbackMoral),
		Length:        domain.LengthMedium,
		Continuation:  true,
		PreviousStory: recap,
		Prompt:        prompt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
