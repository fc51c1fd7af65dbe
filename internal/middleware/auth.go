package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/abhyaas/internal/config"
	"github.com/example/abhyaas/internal/models"
	"github.com/example/abhyaas/internal/utils"
)

const userContextKey = "currentUser"

// AuthMiddleware validates the bearer access token, loads the user it
// names, and stores the record in the request context. A token whose
// user no longer exists is treated as invalid.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, _, err := utils.ParseAccessToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User not found")
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// RequireRole rejects authenticated users whose role differs from the
// required one. Must run after AuthMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authentication")
		}

		if user.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden")
		}

		return c.Next()
	}
}

// CurrentUser extracts the authenticated user from context.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if user, ok := value.(*models.User); ok {
		return user, true
	}

	return nil, false
}
