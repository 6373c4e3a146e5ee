package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
	"go-retail-ws/internal/service"
)

type MetricHandler struct{}

func NewMetricHandler() *MetricHandler {
	return &MetricHandler{}
}

// CreateMetric
// POST /api/v1/stores/:storeID/metrics
func (h *MetricHandler) CreateMetric(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var in model.MetricInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	metric, err := svc.RecordMetric(c.UserContext(), c.Params("storeID"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"metric_id": metric.ID, "data": metric})
}

// GetMetrics
// GET /api/v1/stores/:storeID/metrics?type=&limit=50
func (h *MetricHandler) GetMetrics(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	metrics, err := svc.ListMetrics(c.UserContext(), c.Params("storeID"), c.Query("type"), c.QueryInt("limit", service.DefaultMetricsLimit))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": metrics})
}

// DeleteMetric
// DELETE /api/v1/stores/:storeID/metrics/:id
func (h *MetricHandler) DeleteMetric(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	if err := svc.DeleteMetric(c.UserContext(), c.Params("storeID"), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Metric deleted"})
}
