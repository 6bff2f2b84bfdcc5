package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/auth"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated request state
const (
	ContextIdentityKey = "identity"
	ContextClaimsKey   = "auth_claims"
	ContextTokenKey    = "auth_token"
)

// TokenResolver validates an access token and returns the caller identity.
// Implemented by the identity application service.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (shared.Identity, *auth.Claims, error)
}

// Authentication returns a middleware that authenticates every request via
// a Bearer token. There is no anonymous fallback: requests without a valid
// token are rejected before reaching any handler.
func Authentication(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		identity, claims, err := resolver.ResolveAccessToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Set(ContextClaimsKey, claims)
		c.Set(ContextTokenKey, token)

		// Propagate tenant and user onto the request context so downstream
		// log lines carry them.
		ctx := c.Request.Context()
		ctx, reqLogger := logger.WithOrganizationID(ctx, logger.FromContext(ctx), identity.OrganizationID.String())
		ctx, _ = logger.WithUserID(ctx, reqLogger, identity.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles returns a middleware that allows only the given roles past.
// It must run after Authentication.
func RequireRoles(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		requestID := c.GetString("request_id")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden,
			"Insufficient role for this operation",
			requestID,
		))
	}
}

// GetIdentity returns the authenticated identity stored by Authentication
func GetIdentity(c *gin.Context) (shared.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return shared.Identity{}, false
	}
	identity, ok := value.(shared.Identity)
	if !ok || identity.Validate() != nil {
		return shared.Identity{}, false
	}
	return identity, true
}

// GetToken returns the raw access token stored by Authentication
func GetToken(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}

// GetClaims returns the raw token claims stored by Authentication
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		message,
		requestID,
	))
}
