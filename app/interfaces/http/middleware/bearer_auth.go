// Package middleware holds gin middleware shared across route groups.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/scholarfed/engine/app/interfaces/http/responses"
	"github.com/scholarfed/engine/config/environment_variables"
)

// BearerAuthMiddleware validates an `Authorization: Bearer <token>` header
// against the configured JWT signing key. When no signing key is
// configured the middleware is a no-op, so local development doesn't
// require standing up an auth provider (spec §6: auth is out of scope for
// the engine's own invariants, but the facade's HTTP surface still needs a
// gate for production deployments).
func BearerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		signingKey := environment_variables.EnvironmentVariables.JWTSigningKey
		if signingKey == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.NewErrorResponse(
				"0199600b-0000-7000-8000-000000000001",
				errMissingBearerToken,
			))
			return
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errUnexpectedSigningMethod
			}
			return []byte(signingKey), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.NewErrorResponse(
				"0199600b-0000-7000-8000-000000000002",
				errInvalidBearerToken,
			))
			return
		}

		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errMissingBearerToken      authError = "missing bearer token"
	errInvalidBearerToken      authError = "invalid or expired bearer token"
	errUnexpectedSigningMethod authError = "unexpected JWT signing method"
)
