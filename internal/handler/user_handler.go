package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/middleware"
	"go-retail-ws/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetProfile returns the caller's profile
// GET /api/v1/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": profile})
}

// UpdateProfile edits the caller's display name
// PUT /api/v1/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	profile, err := h.service.UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err)
	}
	if svc := middleware.Workspace(c); svc != nil {
		svc.SetCurrentUser(profile)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": profile})
}
