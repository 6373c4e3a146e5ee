package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"go-retail-ws/internal/model"
)

type StoreHandler struct{}

func NewStoreHandler() *StoreHandler {
	return &StoreHandler{}
}

// CreateStore creates a store owned by the caller
// POST /api/v1/stores
func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	var in model.StoreInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	store, err := svc.CreateStore(c.UserContext(), in, "")
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, fiber.Map{"store_id": store.ID, "data": store})
}

// GetStores lists the caller's stores
// GET /api/v1/stores
func (h *StoreHandler) GetStores(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	stores, err := svc.GetUserStores(c.UserContext(), "")
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"data": stores})
}

// SelectStore makes :storeID the current store of the session
// POST /api/v1/stores/:storeID/select
func (h *StoreHandler) SelectStore(c *fiber.Ctx) error {
	svc, err := workspace(c)
	if err != nil {
		return fail(c, err)
	}

	svc.SetCurrentStore(utils.CopyString(c.Params("storeID")))
	return ok(c, fiber.StatusOK, fiber.Map{"current_store": svc.CurrentStore()})
}
