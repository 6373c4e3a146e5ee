package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/model"
)

type InventoryHandler struct{}

func NewInventoryHandler() *InventoryHandler {
	return &InventoryHandler{}
}

// CreateProduct
// POST /api/v1/stores/:storeID/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var in model.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := svc.CreateProduct(c.UserContext(), c.Params("storeID"), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"product_id": product.ID, "data": product})
}

// GetProducts
// GET /api/v1/stores/:storeID/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	products, err := svc.ListProducts(c.UserContext(), c.Params("storeID"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": products})
}

// UpdateProduct applies a partial update; numbers arrive as text
// PUT /api/v1/stores/:storeID/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var patch model.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if err := svc.UpdateProduct(c.UserContext(), c.Params("storeID"), c.Params("id"), patch); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Product updated"})
}

// DeleteProduct
// DELETE /api/v1/stores/:storeID/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	if err := svc.DeleteProduct(c.UserContext(), c.Params("storeID"), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Product deleted"})
}
