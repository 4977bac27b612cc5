package middleware

import (
	"strings"

	"blink-scheduler/core/config"
	"blink-scheduler/core/constants"
	"blink-scheduler/core/controller"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the Bearer token and stores the claims on the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}

			claims, err := utils.ValidateAndParseToken(parts[1])
			if err != nil {
				logger.Warn("Middleware:Auth:InvalidToken", "error", err)
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// APIKeyMiddleware guards the internal trigger endpoints. The presented
// X-API-Key is compared against the bcrypt hash in config.
func (m *Middleware) APIKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cfg, ok := config.GetSafe()
			if !ok || cfg.Auth.InternalAPIKeyHash == "" {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "internal endpoints are disabled")
			}

			key := c.Request().Header.Get("X-API-Key")
			if key == "" || !utils.CompareAPIKey(cfg.Auth.InternalAPIKeyHash, key) {
				logger.Warn("Middleware:APIKey:Rejected", "path", c.Path())
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid api key")
			}

			return next(c)
		}
	}
}
