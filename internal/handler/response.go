package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/middleware"
	"go-retail-ws/internal/service"
	"go-retail-ws/pkg/response"
)

func fail(c *fiber.Ctx, err error) error {
	return response.Error(c, err)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return response.BadRequest(c, msg)
}

func ok(c *fiber.Ctx, status int, data fiber.Map) error {
	return response.OK(c, status, data)
}

// workspace returns the caller's StoreService; RequireAuth guarantees it on protected routes
func workspace(c *fiber.Ctx) (*service.StoreService, error) {
	svc := middleware.Workspace(c)
	if svc == nil {
		return nil, apperr.Auth("not authenticated")
	}
	return svc, nil
}
