package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
)

type StaffHandler struct{}

func NewStaffHandler() *StaffHandler {
	return &StaffHandler{}
}

// GetStaff
// GET /api/v1/stores/:storeID/staff
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	staff, err := svc.ListStaff(c.UserContext(), c.Params("storeID"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": staff})
}

// AddStaff
// POST /api/v1/stores/:storeID/staff
func (h *StaffHandler) AddStaff(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var in model.StaffInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	member, err := svc.AddStaff(c.UserContext(), c.Params("storeID"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"staff_id": member.ID, "data": member})
}

// UpdateStaff
// PUT /api/v1/stores/:storeID/staff/:id
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var upd model.StaffUpdate
	if err := c.BodyParser(&upd); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := svc.UpdateStaff(c.UserContext(), c.Params("storeID"), c.Params("id"), upd); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Staff member updated"})
}

// RemoveStaff
// DELETE /api/v1/stores/:storeID/staff/:id
func (h *StaffHandler) RemoveStaff(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	if err := svc.RemoveStaff(c.UserContext(), c.Params("storeID"), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Staff member removed"})
}
