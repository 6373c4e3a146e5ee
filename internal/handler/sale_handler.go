package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
	"go-retail-ws/internal/service"
)

type SaleHandler struct{}

func NewSaleHandler() *SaleHandler {
	return &SaleHandler{}
}

// CreateSale
// POST /api/v1/stores/:storeID/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var in model.SaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := svc.RecordSale(c.UserContext(), c.Params("storeID"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{
		"sale_id":         sale.ID,
		"total":           sale.Total,
		"total_formatted": model.FormatAmount(sale.Total),
		"data":            sale,
	})
}

// GetSales lists the newest sales, or the sales between from and to
// (RFC3339) when both are given.
// GET /api/v1/stores/:storeID/sales?limit=100&from=&to=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}
	storeID := c.Params("storeID")

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return badRequest(c, "from must be an RFC3339 timestamp")
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return badRequest(c, "to must be an RFC3339 timestamp")
		}
		sales, err := svc.ListSalesBetween(c.UserContext(), storeID, start, end)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.StatusOK, fiber.Map{"data": sales, "revenue": service.CalculateRevenue(sales)})
	}

	sales, err := svc.ListSales(c.UserContext(), storeID, c.QueryInt("limit", service.DefaultSalesLimit))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": sales})
}

// DeleteSale
// DELETE /api/v1/stores/:storeID/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	if err := svc.DeleteSale(c.UserContext(), c.Params("storeID"), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Sale deleted"})
}
