package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session_id"

// getOrCreateSessionID gets session ID from cookie or creates a new one
func getOrCreateSessionID(c *gin.Context, ttl time.Duration) string {
	sessionID, err := c.Cookie(sessionCookie)
	if err == nil {
		if _, parseErr := uuid.Parse(sessionID); parseErr == nil {
			return sessionID
		}
	}

	sessionID = uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sessionID, int(ttl.Seconds()), "/", "", false, true)
	return sessionID
}

// adminIdentity names the signed-in admin for audit fields
func adminIdentity(c *gin.Context) string {
	if email := c.GetString("user_email"); email != "" {
		return email
	}
	return c.GetString("user_id")
}
