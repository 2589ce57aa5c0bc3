package handler

import (
	"errors"
	"net/http"

	"bedtime-server/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

// handleServiceError maps service errors to the API's JSON error bodies.
// Unclassified errors become 500 with fallback as the message.
func handleServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *domain.ValidationError
	var statusCode int
	var errResp domain.ErrorResponse

	switch {
	case errors.As(err, &validationErr):
		statusCode = http.StatusBadRequest
		errResp = domain.ErrorResponse{Error: validationErr.Message}
	case errors.Is(err, domain.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResp = domain.ErrorResponse{Error: "Story not found"}
	case errors.Is(err, domain.ErrDraftNotFound):
		statusCode = http.StatusNotFound
		errResp = domain.ErrorResponse{Error: "Draft not found"}
	case errors.Is(err, domain.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = domain.ErrorResponse{Error: "Not authenticated"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = domain.ErrorResponse{Error: fallback, Details: err.Error()}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func badBody(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, domain.ErrorResponse{Error: msgInvalidBody})
}
