package middleware

import (
	"interviewhub/internal/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionName     = "interviewhub_session"
	visitorIDKey    = "visitor_id"
	visitorIDMaxAge = 30 * 24 * 60 * 60
)

// Sessions installs the cookie store used to tag anonymous visitors.
func Sessions(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   visitorIDMaxAge,
		HttpOnly: true,
		Secure:   secure,
	})
	return sessions.Sessions(SessionName, store)
}

// VisitorSession gives every browser a stable visitor id for site analytics.
// Must run after Sessions.
func VisitorSession(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "VisitorSession")
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(visitorIDKey).(string); ok && id != "" {
			c.Next()
			return
		}
		session.Set(visitorIDKey, uuid.NewString())
		if err := session.Save(); err != nil {
			log.Warn("Failed to save visitor session", "error", err)
		}
		c.Next()
	}
}

// VisitorID returns "" when VisitorSession did not run.
func VisitorID(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	id, _ := sessions.Default(c).Get(visitorIDKey).(string)
	return id
}
