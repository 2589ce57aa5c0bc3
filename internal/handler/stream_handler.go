package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"bedtime-server/internal/stream"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

func (h *StoryHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(h.cfg.AllowedOrigins) == 0 || slices.Contains(h.cfg.AllowedOrigins, origin)
		},
	}
}

// streamStory reveals a saved story paragraph by paragraph over a websocket.
// Lookup errors are answered before the upgrade.
func (h *StoryHandler) streamStory(c *gin.Context) {
	userID := userIDFrom(c)
	doc, err := h.stories.Document(c.Request.Context(), userID, c.Param("storyId"))
	if err != nil {
		handleServiceError(c, err, "Internal server error")
		return
	}

	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	activeStreams.Inc()
	defer activeStreams.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Читаем только для обнаружения закрытия клиентом
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log := h.logger.With(zap.String("userID", userID), zap.Stringer("storyID", doc.ID))
	log.Debug("Story stream started", zap.Int("blocks", len(doc.Blocks)))

	err = stream.Reveal(ctx, doc.Blocks, h.cfg.StreamInterval, func(f stream.Frame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f)
	})
	if err != nil {
		log.Debug("Story stream ended early", zap.Error(err))
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	log.Debug("Story stream finished")
}
