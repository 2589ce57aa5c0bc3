// Package prompts owns the wording sent to the language and image models.
package prompts

import (
	"errors"
	"fmt"
	"os"

	"bedtime-server/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	defaultStorySystem = "You are a creative children's story writer who specializes in creating engaging, age-appropriate bedtime stories with clear moral lessons."
	defaultTitleSystem = "You are a creative title generator for children's stories."
	defaultTone        = "warm, comforting, and suitable for bedtime reading"
)

// Catalog holds the tunable parts of the prompts. Values come from an
// optional YAML file, then the environment, then the built-in defaults.
type Catalog struct {
	StorySystem string `yaml:"story_system" env:"PROMPT_STORY_SYSTEM"`
	TitleSystem string `yaml:"title_system" env:"PROMPT_TITLE_SYSTEM"`
	DefaultTone string `yaml:"default_tone" env:"PROMPT_DEFAULT_TONE"`

	ShortWords  int `yaml:"short_words" env:"STORY_SHORT_WORDS" env-default:"150" validate:"gt=0"`
	MediumWords int `yaml:"medium_words" env:"STORY_MEDIUM_WORDS" env-default:"300" validate:"gt=0"`
	LongWords   int `yaml:"long_words" env:"STORY_LONG_WORDS" env-default:"500" validate:"gt=0"`

	ShortImages  int `yaml:"short_images" env:"STORY_SHORT_IMAGES" env-default:"2" validate:"gte=0"`
	MediumImages int `yaml:"medium_images" env:"STORY_MEDIUM_IMAGES" env-default:"3" validate:"gte=0"`
	LongImages   int `yaml:"long_images" env:"STORY_LONG_IMAGES" env-default:"5" validate:"gte=0"`

	ContinuationAge    string `yaml:"continuation_age" env:"CONTINUATION_AGE" env-default:"5-10" validate:"required"`
	SceneExcerptLength int    `yaml:"scene_excerpt_length" env:"IMAGE_SCENE_EXCERPT_LENGTH" env-default:"100" validate:"gt=0"`
	FallbackCharacters string `yaml:"fallback_characters" env:"CONTINUATION_FALLBACK_CHARACTERS" env-default:"same characters" validate:"required"`
	FallbackSetting    string `yaml:"fallback_setting" env:"CONTINUATION_FALLBACK_SETTING" env-default:"same setting" validate:"required"`
	FallbackMoral      string `yaml:"fallback_moral" env:"CONTINUATION_FALLBACK_MORAL" env-default:"continuing the previous lesson" validate:"required"`
	ContinuationNote   string `yaml:"continuation_note" env:"PROMPT_CONTINUATION_NOTE"`
}

// Load reads the catalogue. An empty path means environment and defaults only.
func Load(path string) (*Catalog, error) {
	var cat Catalog
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("prompt catalogue %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cat); err != nil {
			return nil, fmt.Errorf("failed to read prompt catalogue %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cat); err != nil {
		return nil, fmt.Errorf("failed to read prompt settings from env: %w", err)
	}

	cat.fillDefaults()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Default returns the built-in catalogue.
func Default() *Catalog {
	cat := &Catalog{
		ShortWords:         150,
		MediumWords:        300,
		LongWords:          500,
		ShortImages:        2,
		MediumImages:       3,
		LongImages:         5,
		ContinuationAge:    "5-10",
		SceneExcerptLength: 100,
		FallbackCharacters: "same characters",
		FallbackSetting:    "same setting",
		FallbackMoral:      "continuing the previous lesson",
	}
	cat.fillDefaults()
	return cat
}

func (c *Catalog) fillDefaults() {
	if c.StorySystem == "" {
		c.StorySystem = defaultStorySystem
	}
	if c.TitleSystem == "" {
		c.TitleSystem = defaultTitleSystem
	}
	if c.DefaultTone == "" {
		c.DefaultTone = defaultTone
	}
	if c.ContinuationNote == "" {
		c.ContinuationNote = "Continue the adventure with the same characters and keep events consistent with the recap."
	}
}

// Validate checks the catalogue with struct tags.
func (c *Catalog) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return fmt.Errorf("invalid prompt catalogue: field %s failed %q", vErrs[0].Field(), vErrs[0].Tag())
		}
		return fmt.Errorf("invalid prompt catalogue: %w", err)
	}
	return nil
}

// WordCount maps a length bucket to the target word count.
// Anything that is not short or medium counts as long.
func (c *Catalog) WordCount(length domain.StoryLength) int {
	switch length {
	case domain.LengthShort:
		return c.ShortWords
	case domain.LengthMedium:
		return c.MediumWords
	default:
		return c.LongWords
	}
}

// ImageCount maps a length bucket to the number of illustrations.
func (c *Catalog) ImageCount(length domain.StoryLength) int {
	switch length {
	case domain.LengthShort:
		return c.ShortImages
	case domain.LengthMedium:
		return c.MediumImages
	default:
		return c.LongImages
	}
}
