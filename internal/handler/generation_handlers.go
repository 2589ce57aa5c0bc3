package handler

import (
	"net/http"

	"bedtime-server/internal/domain"

	"github.com/gin-gonic/gin"
)

type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

type generateImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

type generatedStoryResponse struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func (h *StoryHandler) generateStory(c *gin.Context) {
	var req domain.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	result, err := h.generator.GenerateStory(c.Request.Context(), userIDFrom(c), req)
	if err != nil {
		handleServiceError(c, err, "Failed to generate story")
		return
	}
	c.JSON(http.StatusOK, generatedStoryResponse{
		ID:      result.ID.String(),
		Title:   result.Title,
		Content: result.Content,
		Images:  result.Images,
	})
}

func (h *StoryHandler) generateImage(c *gin.Context) {
	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	ref, err := h.generator.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		handleServiceError(c, err, "Failed to generate image")
		return
	}
	c.JSON(http.StatusOK, generateImageResponse{ImageURL: ref})
}
