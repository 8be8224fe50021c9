package middleware

import (
	"context"
	"strings"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// AuthCookie carries the session token for the web front end.
const AuthCookie = "auth_token"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*users.Principal, error)
}

// tokensFromRequest lists the cookie token first, then the Authorization
// bearer token.
func tokensFromRequest(c *gin.Context) []string {
	var out []string
	if cookie, err := c.Cookie(AuthCookie); err == nil && cookie != "" {
		out = append(out, cookie)
	}
	header := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(header, "Bearer "); token != header {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// authenticate tries each presented token in order; a stale cookie does not
// hide a valid bearer token.
func authenticate(c *gin.Context, auth Authenticator) (*users.Principal, error) {
	tokens := tokensFromRequest(c)
	if len(tokens) == 0 {
		return nil, apperr.Unauthorized("Authentication required")
	}
	var lastErr error
	for _, token := range tokens {
		p, err := auth.Authenticate(c.Request.Context(), token)
		if err == nil {
			return p, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := authenticate(c, auth)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Set(respond.PrincipalKey, p)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous or stale-token requests through unchanged.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, err := authenticate(c, auth); err == nil {
			c.Set(respond.PrincipalKey, p)
		}
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := respond.Principal(c)
		if p == nil {
			respond.Error(c, apperr.Unauthorized("Authentication required"))
			return
		}
		if p.Role != role {
			respond.Error(c, apperr.Forbidden("Access denied"))
			return
		}
		c.Next()
	}
}
