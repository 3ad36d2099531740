package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/usercontext"
)

// TokenAuthMiddleware authenticates requests carrying an opaque bearer token.
func TokenAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := extractTokenFromHeader(c)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing authentication token"})
		}

		repo := repository.GetGlobalFactory().GetTokenRepository()
		token, err := repo.GetByKey(key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid token"})
			}
			log.Printf("token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Token verification failed"})
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     token.UserID,
			Username:   token.User.Name,
			IsLoggedIn: true,
		})
		c.Locals(usercontext.KeyUserID, token.UserID)
		c.Locals(usercontext.KeyUsername, token.User.Name)

		return c.Next()
	}
}

// extractTokenFromHeader accepts both "Token <key>" (DRF convention) and
// "Bearer <key>" authorization schemes.
func extractTokenFromHeader(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	lower := strings.ToLower(auth)
	switch {
	case strings.HasPrefix(lower, "token "):
		return strings.TrimSpace(auth[6:])
	case strings.HasPrefix(lower, "bearer "):
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
