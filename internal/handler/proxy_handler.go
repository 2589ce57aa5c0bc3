package handler

import (
	"errors"
	"net/http"

	"bedtime-server/internal/domain"
	"bedtime-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type proxyImageRequest struct {
	URL string `json:"url"`
}

// proxyImage answers in plain text, unlike the rest of the API.
func (h *StoryHandler) proxyImage(c *gin.Context) {
	var req proxyImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, msgInvalidBody)
		return
	}

	img, err := h.proxy.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		var validationErr *domain.ValidationError
		var upstreamErr *service.UpstreamStatusError
		switch {
		case errors.As(err, &validationErr):
			c.String(http.StatusBadRequest, validationErr.Message)
		case errors.As(err, &upstreamErr):
			c.String(upstreamErr.Status, "Failed to fetch image")
		default:
			h.logger.Error("Error proxying image", zap.Error(err))
			c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		proxiedImagesTotal.WithLabelValues("error").Inc()
		return
	}

	proxiedImagesTotal.WithLabelValues("success").Inc()
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
