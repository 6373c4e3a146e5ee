package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// GetSummary returns revenue, sales count, top products and stock overview
// GET /api/v1/stores/:storeID/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	summary, err := svc.Summary(c.UserContext(), c.Params("storeID"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"data":              summary,
		"revenue_formatted": model.FormatAmount(summary.Revenue),
	})
}
