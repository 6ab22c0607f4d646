package middleware

import (
	"strings"

	"ia-papeleria/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalOperator   = "operator"
	LocalPrivileges = "privileges"
)

// RequireAuth validates the bearer token and stores the operator in the context
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals(LocalOperator, claims.Operator)
		c.Locals(LocalPrivileges, claims.Privileges)
		return c.Next()
	}
}

// RequirePrivilege checks if the operator has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the operator has at least one of the privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, have := range privileges {
			for _, want := range requiredPrivileges {
				if have == want {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}

// Operator returns the authenticated operator, or "system" outside protected routes.
func Operator(c *fiber.Ctx) string {
	if op, ok := c.Locals(LocalOperator).(string); ok && op != "" {
		return op
	}
	return "system"
}
