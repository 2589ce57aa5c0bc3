// Package handler exposes the story API over gin.
package handler

import (
	"net/http"
	"time"

	"bedtime-server/internal/auth"
	"bedtime-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds the HTTP-only knobs.
type Config struct {
	StreamInterval time.Duration
	AllowedOrigins []string
}

// StoryHandler handles the /api routes.
type StoryHandler struct {
	stories   service.StoryService
	generator service.GenerationService
	drafts    service.DraftService
	proxy     service.ImageProxy
	cfg       Config
	logger    *zap.Logger
}

// NewStoryHandler creates a StoryHandler.
func NewStoryHandler(
	stories service.StoryService,
	generator service.GenerationService,
	drafts service.DraftService,
	proxy service.ImageProxy,
	cfg Config,
	logger *zap.Logger,
) *StoryHandler {
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = time.Second
	}
	return &StoryHandler{
		stories:   stories,
		generator: generator,
		drafts:    drafts,
		proxy:     proxy,
		cfg:       cfg,
		logger:    logger.Named("StoryHandler"),
	}
}

// RegisterRoutes mounts every route. rateLimit guards the unauthenticated
// generation endpoints and may be nil.
func (h *StoryHandler) RegisterRoutes(router gin.IRouter, sessions *auth.Middleware, rateLimit gin.HandlerFunc) {
	api := router.Group("/api")

	generation := api.Group("")
	if rateLimit != nil {
		generation.Use(rateLimit)
	}
	generation.POST("/generate-story", h.generateStory)
	generation.POST("/generate-image", h.generateImage)

	api.POST("/proxy-image", sessions.RequireSessionPlain(), h.proxyImage)

	stories := api.Group("/stories", sessions.RequireSession())
	{
		stories.POST("", h.createStory)
		stories.GET("", h.listStories)
		stories.GET("/:storyId", h.getStory)
		stories.GET("/:storyId/document", h.getDocument)
		stories.GET("/:storyId/pdf", h.exportPDF)
		stories.GET("/:storyId/stream", h.streamStory)
		stories.POST("/:storyId/continue", h.continueStory)
	}

	drafts := api.Group("/drafts", sessions.RequireSession())
	{
		drafts.POST("", h.saveDraft)
		drafts.GET("", h.listDrafts)
		drafts.GET("/:draftId", h.getDraft)
	}
}

// Health answers liveness checks.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func userIDFrom(c *gin.Context) string {
	if session, ok := auth.SessionFrom(c); ok {
		return session.User.ID
	}
	return ""
}
