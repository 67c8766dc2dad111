package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
)

// LoadSessionUser copies the signed-in uid from the session into the request
// context. Requests without a session pass through untouched.
func LoadSessionUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := sessionFrom(c); ok {
			if uid, ok := session.Get(constants.ContextKeyUserID).(string); ok && uid != "" {
				c.Set(constants.ContextKeyUserID, uid)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a signed-in uid
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	uid, ok := userID.(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

// SignIn stores uid in the session. It is a no-op when no session store is installed.
func SignIn(c *gin.Context, uid string) error {
	session, ok := sessionFrom(c)
	if !ok {
		return nil
	}
	session.Set(constants.ContextKeyUserID, uid)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(constants.ContextKeyUserID, uid)
	return nil
}

// SignOut clears the session.
func SignOut(c *gin.Context) error {
	session, ok := sessionFrom(c)
	if !ok {
		return nil
	}
	session.Clear()
	return session.Save()
}

func sessionFrom(c *gin.Context) (sessions.Session, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, false
	}
	return sessions.Default(c), true
}
