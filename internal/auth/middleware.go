package auth

import (
	"net/http"
	"strings"

	"bedtime-server/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const sessionKey = "session"

var sessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bedtime_session_checks_total",
		Help: "Total number of session checks by status.",
	},
	[]string{"status"},
)

// Middleware resolves the session of incoming requests.
type Middleware struct {
	verifier   Verifier
	cookieName string
	logger     *zap.Logger
}

// NewMiddleware reads the token from "Authorization: Bearer" first and then
// from the cookie named cookieName.
func NewMiddleware(verifier Verifier, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: verifier, cookieName: cookieName, logger: logger.Named("SessionMiddleware")}
}

// RequireSession aborts with 401 {"error":"Not authenticated"} when there
// is no valid session.
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return m.require(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, domain.ErrorResponse{Error: "Not authenticated"})
	})
}

// RequireSessionPlain is RequireSession with a plain-text "Unauthorized" body,
// the contract of the image proxy.
func (m *Middleware) RequireSessionPlain() gin.HandlerFunc {
	return m.require(func(c *gin.Context) {
		c.String(http.StatusUnauthorized, "Unauthorized")
		c.Abort()
	})
}

func (m *Middleware) require(reject func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			sessionChecksTotal.WithLabelValues("missing").Inc()
			reject(c)
			return
		}

		session, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil || session == nil || session.User.ID == "" {
			m.logger.Debug("Session rejected", zap.Error(err))
			sessionChecksTotal.WithLabelValues("failure").Inc()
			reject(c)
			return
		}

		sessionChecksTotal.WithLabelValues("success").Inc()
		c.Set(sessionKey, session)
		c.Set("user_id", session.User.ID)
		c.Next()
	}
}

func (m *Middleware) extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok
}
