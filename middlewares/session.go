// Package middlewares gates requests on the resolved session: who the
// caller is, and which role they carry. Resolution happens exactly once per
// request; every guard decides on the resolved state, never on the raw
// token.
package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"greenlens/models"
	"greenlens/utils"
)

// SessionState Where a request stands after session resolution.
type SessionState int

const (
	// SessionUnknown The session has not been resolved yet. No guard may
	// decide anything in this state.
	SessionUnknown SessionState = iota
	// SessionUnauthenticated No valid token was presented.
	SessionUnauthenticated
	// SessionAuthenticatedNoRole A valid token for a user whose profile
	// carries no recognized role.
	SessionAuthenticatedNoRole
	// SessionAuthenticatedWithRole A valid token and a recognized role.
	SessionAuthenticatedWithRole
)

// Session The resolved caller identity for one request.
type Session struct {
	State SessionState
	User  models.User
}

const sessionKey = "greenlens.session"

// ResolveSession Turn the request's token into a Session. Exactly one
// resolution happens per request; repeated calls return the stored result.
func ResolveSession(c *gin.Context) Session {
	if stored, ok := c.Get(sessionKey); ok {
		return stored.(Session)
	}

	session := resolve(c)
	c.Set(sessionKey, session)
	return session
}

func resolve(c *gin.Context) Session {
	userID, err := utils.ExtractTokenID(c)
	if err != nil {
		return Session{State: SessionUnauthenticated}
	}

	var user models.User
	if err := models.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		log.Warn("token subject has no user record: ", userID)
		return Session{State: SessionUnauthenticated}
	}

	if !user.Role.Valid() {
		return Session{State: SessionAuthenticatedNoRole, User: user}
	}
	return Session{State: SessionAuthenticatedWithRole, User: user}
}

// CurrentUser The resolved user for a request that already passed
// JwtAuthMiddleware.
func CurrentUser(c *gin.Context) models.User {
	return ResolveSession(c).User
}

// JwtAuthMiddleware Reject requests that do not carry a valid session.
func JwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := ResolveSession(c)
		switch session.State {
		case SessionAuthenticatedNoRole, SessionAuthenticatedWithRole:
			c.Next()
		case SessionUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case SessionUnknown:
			// Resolution cannot leave the state Unknown; treat it as a
			// server fault rather than leaking the guarded content.
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		}
	}
}

// RequireRole Reject sessions that lack the given role. Administrators pass
// every role gate.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := ResolveSession(c)
		switch session.State {
		case SessionAuthenticatedWithRole:
			if session.User.IsAdmin || session.User.Role == role {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		case SessionAuthenticatedNoRole:
			if session.User.IsAdmin {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		case SessionUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case SessionUnknown:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		}
	}
}

// RequireAdmin Reject sessions without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := ResolveSession(c)
		switch session.State {
		case SessionAuthenticatedWithRole, SessionAuthenticatedNoRole:
			if session.User.IsAdmin {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
		case SessionUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case SessionUnknown:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		}
	}
}
