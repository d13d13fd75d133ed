package middleware

import (
	"errors"
	"net/http"
	"strings"

	"interviewhub/internal/auth"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CheckUserKey = "user"
const authErrorKey = "auth_error"

const (
	msgTokenRequired = "Access token required"
	msgTokenInvalid  = "Invalid or expired token"
)

// LoadUser resolves the bearer token, if any, and stores the user in the
// context. Public routes still work without a token; AuthRequired decides
// whether its absence is fatal.
func LoadUser(gdb *gorm.DB, secret string, baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "LoadUser")
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			log.Debug("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			c.Set(authErrorKey, msgTokenInvalid)
			c.Next()
			return
		}

		var user models.User
		err = gdb.WithContext(c.Request.Context()).First(&user, claims.UserID).Error
		switch {
		case err == nil:
			c.Set(CheckUserKey, &user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.Set(authErrorKey, msgTokenInvalid)
		default:
			log.Error("Failed to load user", "user_id", claims.UserID, "error", err)
			c.Set(authErrorKey, msgTokenInvalid)
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a user loaded by LoadUser.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		msg := c.GetString(authErrorKey)
		if msg == "" {
			msg = msgTokenRequired
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
	}
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentUserID is nil for anonymous requests.
func CurrentUserID(c *gin.Context) *uint {
	if user := CurrentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
