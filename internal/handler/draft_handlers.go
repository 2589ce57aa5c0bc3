package handler

import (
	"net/http"

	"bedtime-server/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *StoryHandler) saveDraft(c *gin.Context) {
	var generated domain.GeneratedStory
	if err := c.ShouldBindJSON(&generated); err != nil {
		badBody(c)
		return
	}
	draft, err := h.drafts.SaveDraft(c.Request.Context(), userIDFrom(c), &generated)
	if err != nil {
		handleServiceError(c, err, "Failed to save draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *StoryHandler) listDrafts(c *gin.Context) {
	list, err := h.drafts.ListDrafts(c.Request.Context(), userIDFrom(c))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *StoryHandler) getDraft(c *gin.Context) {
	draft, err := h.drafts.GetDraft(c.Request.Context(), userIDFrom(c), c.Param("draftId"))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, draft)
}
