package story

import (
	"strconv"
	"strings"

	"bedtime-server/internal/domain"
)

// Normalize validates input and turns it into the persisted field set.
// Title and content are trimmed, images keep only string entries and
// metadata keeps scalar values rendered as strings. A title or content made
// only of whitespace is rejected with the same message as a missing one.
func Normalize(input map[string]any) (domain.StoryFields, error) {
	if res := ValidateStoryData(input); !res.Valid {
		return domain.StoryFields{}, domain.NewValidationError(res.Error)
	}

	title := strings.TrimSpace(input["title"].(string))
	if title == "" {
		return domain.StoryFields{}, domain.NewValidationError(MsgTitleRequired)
	}
	content := strings.TrimSpace(input["content"].(string))
	if content == "" {
		return domain.StoryFields{}, domain.NewValidationError(MsgContentRequired)
	}

	return domain.StoryFields{
		Title:    title,
		Content:  content,
		Images:   normalizeImages(input["images"]),
		Metadata: normalizeMetadata(input["metadata"]),
	}, nil
}

func normalizeImages(raw any) []string {
	images := []string{}
	list, ok := raw.([]any)
	if !ok {
		return images
	}
	for _, item := range list {
		if s, isString := item.(string); isString {
			images = append(images, s)
		}
	}
	return images
}

func normalizeMetadata(raw any) map[string]string {
	metadata := map[string]string{}
	obj, ok := raw.(map[string]any)
	if !ok {
		return metadata
	}
	for key, value := range obj {
		switch v := value.(type) {
		case string:
			metadata[key] = v
		case bool:
			metadata[key] = strconv.FormatBool(v)
		case float64:
			metadata[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		// null, массивы и вложенные объекты отбрасываются
	}
	return metadata
}
