package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// RequireRole admits requests whose token carries one of the given portal roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		role, ok := localRole(c)
		if !ok || !allowed[role] {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// localRole reads the role JWTProtected stored on the request.
func localRole(c *fiber.Ctx) (models.Role, bool) {
	switch value := c.Locals("user_role").(type) {
	case models.Role:
		return value, value.Valid()
	case string:
		return models.ParseRole(value)
	default:
		return "", false
	}
}
