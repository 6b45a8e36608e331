package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Denylist is the revoked-token check the middleware consults after
// signature validation.
type Denylist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth validates the bearer JWT, rejects revoked tokens, and injects the
// claims into the request context.
func Auth(jwtSecret string, denylist Denylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if denylist != nil {
				jti, _ := claims["jti"].(string)
				if jti != "" {
					revoked, derr := denylist.IsRevoked(c.Request().Context(), jti)
					if derr == nil && revoked {
						return echo.NewHTTPError(http.StatusUnauthorized, "session no longer valid")
					}
				}
			}

			c.Set("email", claims["email"])
			c.Set("name", claims["name"])
			c.Set("role", claims["role"])
			c.Set("token", parts[1])

			return next(c)
		}
	}
}
