package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"bedtime-server/internal/prompts"

	"github.com/gin-gonic/gin"
)

func (h *StoryHandler) createStory(c *gin.Context) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil {
		badBody(c)
		return
	}
	// Владелец берётся только из сессии
	created, err := h.stories.Create(c.Request.Context(), userIDFrom(c), input)
	if err != nil {
		handleServiceError(c, err, "Failed to save story")
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *StoryHandler) listStories(c *gin.Context) {
	stories, err := h.stories.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (h *StoryHandler) getStory(c *gin.Context) {
	st, err := h.stories.Get(c.Request.Context(), userIDFrom(c), c.Param("storyId"))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StoryHandler) getDocument(c *gin.Context) {
	doc, err := h.stories.Document(c.Request.Context(), userIDFrom(c), c.Param("storyId"))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *StoryHandler) exportPDF(c *gin.Context) {
	export, err := h.stories.ExportPDF(c.Request.Context(), userIDFrom(c), c.Param("storyId"))
	if err != nil {
		handleServiceError(c, err, "Failed to export story")
		return
	}

	c.Header("ETag", export.ETag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == export.ETag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Header("Cache-Control", "private, no-cache")
	c.Data(http.StatusOK, "application/pdf", export.Data)
}

func (h *StoryHandler) continueStory(c *gin.Context) {
	var overrides prompts.ContinuationOverrides
	if err := c.ShouldBindJSON(&overrides); err != nil && !errors.Is(err, io.EOF) {
		badBody(c)
		return
	}
	result, err := h.generator.ContinueStory(c.Request.Context(), userIDFrom(c), c.Param("storyId"), overrides)
	if err != nil {
		handleServiceError(c, err, "Failed to continue story")
		return
	}
	c.JSON(http.StatusOK, result)
}
