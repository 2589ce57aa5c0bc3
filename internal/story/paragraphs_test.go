package story_test

import (
	"testing"

	"bedtime-server/internal/story"

	"github.com/stretchr/testify/assert"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", " \n\n\t\n\n ", []string{}},
		{"single", "Once upon a time.", []string{"Once upon a time."}},
		{"two", "A\n\nB", []string{"A", "B"}},
		{"blank segments dropped", "A\n\n\n\n  \n\nB", []string{"A", "B"}},
		{"single newline kept inside", "A\nstill A\n\nB", []string{"A\nstill A", "B"}},
		{"segments not trimmed", " A \n\n\nB", []string{" A ", "\nB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := story.SplitParagraphs(tt.content)
			assert.Equal(t, tt.want, got)
			for _, p := range got {
				assert.NotEmpty(t, p)
			}
		})
	}
}

func TestSplitParagraphs_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"A",
		"A\n\nB\n\nC",
		"A\n\n\nB",
		"A\n\n\n\n\nB",
		"A\n\n \n\nB\n",
		"\n\nlead\n\ntrail\n\n",
		"x\n\n\n\n\n\n\ny",
	}
	for _, in := range inputs {
		once := story.SplitParagraphs(in)
		twice := story.SplitParagraphs(story.JoinParagraphs(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}
