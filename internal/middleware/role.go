package middleware

import (
	"foodtruck/internal/common"
	"foodtruck/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole admits only callers holding one of roles. It must run after LoadActor.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !allowed[role] {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}
