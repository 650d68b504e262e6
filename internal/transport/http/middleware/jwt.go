package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quillpost/internal/app"
	"quillpost/internal/pkg/jwtutil"
	"quillpost/internal/transport/http/response"
)

const (
	ContextUserIDKey         = "user_id"
	ContextEmailKey          = "email"
	ContextRoleKey           = "role"
	ContextTokenIDKey        = "token_id"
	ContextTokenExpiresAtKey = "token_expires_at"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthJWT rejects requests without a valid, unrevoked bearer token. checker
// may be nil when revocation is disabled.
func AuthJWT(secret string, checker RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			return
		}
		authenticate(c, secret, checker, authHeader)
	}
}

// OptionalJWT lets anonymous requests through but still rejects a bad token.
func OptionalJWT(secret string, checker RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}
		authenticate(c, secret, checker, authHeader)
	}
}

func authenticate(c *gin.Context, secret string, checker RevocationChecker, authHeader string) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
		return
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	claims, err := jwtutil.ParseToken(secret, token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
		return
	}

	if checker != nil {
		revoked, err := checker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "check token revocation failed", "error", err)
			response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "authentication failed")
			return
		}
		if revoked {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "token has been revoked")
			return
		}
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextEmailKey, claims.Email)
	c.Set(ContextRoleKey, claims.Role)
	c.Set(ContextTokenIDKey, claims.ID)
	c.Set(ContextTokenExpiresAtKey, expiresAt)
	c.Next()
}

// ActorFromContext returns the authenticated identity, or an anonymous actor
// when no token was presented.
func ActorFromContext(c *gin.Context) app.Actor {
	return app.Actor{
		UserID: c.GetString(ContextUserIDKey),
		Email:  c.GetString(ContextEmailKey),
		Role:   c.GetString(ContextRoleKey),
	}
}
