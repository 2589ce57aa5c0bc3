// Package story holds the pure story logic shared by the API, the reader view
// and the PDF exporter: payload validation, paragraph splitting, illustrated
// layout and title clean-up. Nothing here performs I/O.
package story

// Validation messages returned verbatim to clients.
const (
	MsgTitleRequired   = "Title is required and must be a string"
	MsgContentRequired = "Content is required and must be a string"
	MsgImagesArray     = "Images must be an array of strings"
	MsgMetadataObject  = "Metadata must be an object"
)

// ValidationResult is the outcome of ValidateStoryData.
// Error is empty when Valid is true.
type ValidationResult struct {
	Valid bool
	Error string
}

// ValidateStoryData checks a decoded JSON object against the story payload
// rules. Rules are applied in order and the first failure wins.
// images elements are not type-checked here, Normalize filters them.
func ValidateStoryData(input map[string]any) ValidationResult {
	if !isNonEmptyString(input["title"]) {
		return invalid(MsgTitleRequired)
	}
	if !isNonEmptyString(input["content"]) {
		return invalid(MsgContentRequired)
	}
	if images, ok := input["images"]; ok && truthy(images) {
		if _, isArray := images.([]any); !isArray {
			return invalid(MsgImagesArray)
		}
	}
	if metadata, ok := input["metadata"]; ok && truthy(metadata) {
		if _, isObject := metadata.(map[string]any); !isObject {
			return invalid(MsgMetadataObject)
		}
	}
	return ValidationResult{Valid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Error: msg}
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// truthy mirrors loose client-side truthiness for JSON values:
// null, false, 0 and "" count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
