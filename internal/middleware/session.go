package middleware

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"

	"github.com/yukikurage/project-tracker-api/internal/config"
	"github.com/yukikurage/project-tracker-api/internal/constants"
)

const sessionKeySalt = "project-tracker-session"

// SessionKeys derives the cookie authentication (64 bytes) and encryption
// (32 bytes) keys from the configured secret.
func SessionKeys(secret string) ([]byte, []byte, error) {
	reader := hkdf.New(sha256.New, []byte(secret), []byte(sessionKeySalt), []byte("cookie"))

	authKey := make([]byte, 64)
	if _, err := io.ReadFull(reader, authKey); err != nil {
		return nil, nil, fmt.Errorf("failed to derive session auth key: %w", err)
	}
	encKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, encKey); err != nil {
		return nil, nil, fmt.Errorf("failed to derive session encryption key: %w", err)
	}
	return authKey, encKey, nil
}

// NewSessionStore builds a Redis-backed store when Redis is configured and a
// cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	authKey, encKey, err := SessionKeys(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	var store sessions.Store
	if cfg.UsesRedisSessions() {
		addr := cfg.RedisHost + ":" + cfg.RedisPort
		store, err = redisStore.NewStore(10, "tcp", addr, "", "", authKey, encKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	} else {
		store = cookie.NewStore(authKey, encKey)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Sessions installs the session middleware
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(constants.SessionCookieName, store)
}
