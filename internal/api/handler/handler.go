// Package handler implements the gin HTTP handlers of the API service.
package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/aslonhq/vendor-portal/internal/auth"
	"github.com/aslonhq/vendor-portal/internal/domain"
	"github.com/aslonhq/vendor-portal/internal/lifecycle"
	"github.com/aslonhq/vendor-portal/internal/portal"
)

// Context keys set by the auth middleware.
const (
	CallerKey = "caller"
	TokenKey  = "session_token"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Auth      *auth.Service
	Lifecycle *lifecycle.Service
	Portal    *portal.Service
}

// CallerFromContext returns the authenticated caller set by the auth
// middleware.
func CallerFromContext(c *gin.Context) (domain.Caller, bool) {
	value, ok := c.Get(CallerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := value.(domain.Caller)
	return caller, ok
}

// TokenFromContext returns the raw session token set by the auth middleware.
func TokenFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(TokenKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
