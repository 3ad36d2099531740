package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nubuzz/nubuzz/app/models"
	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/usercontext"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

var validate = validator.New()

// HandleAuthRegister creates an account with an empty preference row and
// issues a bearer token. A mismatched password confirmation fails before
// anything is persisted.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if err := validate.Struct(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", registerValidationMessage(err))
	}

	repos := repository.GetGlobalRepositories()

	user, err := models.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid registration data")
	}
	if err := repos.User.Create(user); err != nil {
		// Unique index violation on name or email
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Username or email is already taken")
	}

	if _, err := repos.Preference.GetOrCreateByUserID(user.ID); err != nil {
		log.Printf("create preference row for user %d: %v", user.ID, err)
	}

	token, err := repos.Token.GetOrCreateForUser(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":    token.Key,
		"username": user.Name,
		"email":    user.Email,
	})
}

// HandleAuthLogin verifies credentials by username, or by resolving an
// email to its account first, and issues or reuses the bearer token.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()

	var (
		user *models.User
		err  error
	)
	switch {
	case req.Username != "":
		user, err = repos.User.GetByName(req.Username)
	case req.Email != "":
		user, err = repos.User.GetByEmail(req.Email)
	default:
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Username or email is required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}

	token, err := repos.Token.GetOrCreateForUser(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"token":    token.Key,
		"username": user.Name,
	})
}

// HandleAuthLogout invalidates the caller's current token.
func HandleAuthLogout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	if err := repository.GetGlobalRepositories().Token.DeleteByUserID(userCtx.UserID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Logout failed")
	}

	return c.JSON(fiber.Map{"detail": "Logged out"})
}

// registerValidationMessage turns the first validation failure into a
// field-level message.
func registerValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid registration data"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if field == "password2" && fe.Tag() == "eqfield" {
		return "password2: passwords do not match"
	}
	return field + ": failed " + fe.Tag() + " validation"
}
