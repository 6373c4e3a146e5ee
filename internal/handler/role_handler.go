package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
)

type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// GetRoles returns the staff role table
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, fiber.Map{"data": model.DefaultRoles})
}

// GetPrivileges returns every product action
// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, fiber.Map{"data": model.DefaultPrivileges})
}
