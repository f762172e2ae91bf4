package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/RON-000000/photocomp/internal/model"
)

const principalKey = "principal"

// userLoader resolves an identity-provider subject to a local account.
type userLoader interface {
	FindBySubject(ctx context.Context, subject string) (*model.User, error)
}

// Auth validates the bearer token and puts the caller's Principal in the
// request locals. Requests without a token pass through unauthenticated;
// route guards decide whether that is acceptable.
func Auth(secret string, users userLoader) fiber.Handler {
	keyFn := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}

	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "),
			&jwt.RegisteredClaims{}, keyFn,
			jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		u, err := users.FindBySubject(c.Context(), claims.Subject)
		if errors.Is(err, model.ErrNotFound) {
			// Token is valid but the account has not synced yet.
			return c.Next()
		}
		if err != nil {
			return ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL", "Failed to resolve user")
		}

		c.Locals(principalKey, model.Principal{
			UserID:   u.UserID,
			Username: u.Username,
			Role:     u.Role,
		})
		return c.Next()
	}
}

// Principal returns the authenticated caller, or false when the request
// carried no valid identity.
func Principal(c fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(principalKey).(model.Principal)
	return p, ok
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := Principal(c); !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		return c.Next()
	}
}

// RequireRole rejects callers that lack any of the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		}
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
	}
}
