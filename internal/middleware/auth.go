package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"stively/internal/db"
	"stively/internal/models"
)

// AuthMiddleware handles user authentication via sessions and gates
// mutating operations behind the closed role set.
type AuthMiddleware struct {
	db *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{db: database}
}

// RequireAuth ensures the request carries a valid session and loads the
// user into locals. No side effects happen before this check passes.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user := m.loadUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireRole returns a handler that admits only the given roles. It
// implies RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user := m.loadUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "authentication required",
			})
		}

		if !user.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error":  "insufficient permissions",
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// OptionalAuth loads the user if authenticated but never rejects.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.loadUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

func (m *AuthMiddleware) loadUser(c fiber.Ctx) *models.User {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	sub, ok := sess.Get("user_sub").(string)
	if !ok || sub == "" {
		return nil
	}

	user, err := m.db.GetUserBySub(c.Context(), sub)
	if err != nil {
		sess.Destroy()
		return nil
	}
	return user
}

// CurrentUser returns the user placed in locals by the auth middleware.
func CurrentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
