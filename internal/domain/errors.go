package domain

import "errors"

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrDraftNotFound = errors.New("draft not found")

	ErrUnauthorized   = errors.New("unauthorized")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	ErrInvalidInput = errors.New("invalid input data")

	ErrGenerationFailed      = errors.New("story generation failed")
	ErrImageGenerationFailed = errors.New("image generation failed")
	ErrImagesDisabled        = errors.New("image generation is not configured")
)

// ValidationError carries the exact user-facing message of a rejected payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrInvalidInput) match any validation failure.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError wraps msg as a ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
