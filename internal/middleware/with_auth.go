package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-portal-api/internal/models"
	"github.com/noah-isme/campus-portal-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny     = "any"
	AuthRoleStudent = "student"
	// AuthRoleStaff admits instructors and administrators.
	AuthRoleStaff   = "staff"
	AuthRoleAdmin   = "admin"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with basic authentication/authorization guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser || role != AuthRoleAny

	return func(c *fiber.Ctx) error {
		viewer, authenticated := CurrentViewer(c)
		if requireUser && !authenticated {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}
		if role == AuthRoleAny {
			return handler(c)
		}

		var allowed bool
		switch role {
		case AuthRoleStudent:
			allowed = viewer.Role.CanEnroll()
		case AuthRoleStaff:
			allowed = viewer.Role.CanTeach()
		default:
			allowed = string(viewer.Role) == role
		}
		if !allowed {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		return handler(c)
	}
}

// CurrentViewer returns the authenticated user placed on the context by JWTProtected.
func CurrentViewer(c *fiber.Ctx) (models.Viewer, bool) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok || userID == 0 {
		return models.Viewer{}, false
	}

	role, ok := localRole(c)
	if !ok {
		return models.Viewer{}, false
	}

	return models.Viewer{ID: userID, Role: role}, true
}
