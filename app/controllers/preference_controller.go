package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/usercontext"
)

// Pointer fields distinguish "not sent" from "set to empty" so the update
// stays partial.
type preferenceRequest struct {
	Categories *string `json:"categories"`
	Locations  *string `json:"locations"`
}

const maxPreferenceLength = 255

// HandleUpdatePreferences applies a partial update to the caller's
// preference row, creating it on first access.
func HandleUpdatePreferences(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req preferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Categories != nil && len(*req.Categories) > maxPreferenceLength {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "categories: too long")
	}
	if req.Locations != nil && len(*req.Locations) > maxPreferenceLength {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "locations: too long")
	}

	prefs := repository.GetGlobalRepositories().Preference
	pref, err := prefs.GetOrCreateByUserID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load preferences")
	}

	if req.Categories != nil {
		pref.Categories = *req.Categories
	}
	if req.Locations != nil {
		pref.Locations = *req.Locations
	}

	if err := prefs.Update(pref); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save preferences")
	}

	return c.JSON(pref)
}
