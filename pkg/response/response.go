// Package response renders the JSON envelope shared by handlers and
// middleware: {"ok": true, ...} on success, {"ok": false, "kind", "error"}
// on failure.
package response

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/apperr"
)

// StatusFor maps an error kind to an HTTP status
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindAuth, apperr.KindInvalidCredentials, apperr.KindInvalidSession:
		return fiber.StatusUnauthorized
	case apperr.KindPermissionDenied:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindAccountExists, apperr.KindStockInsufficient:
		return fiber.StatusConflict
	}
	return fiber.StatusBadGateway
}

// Error renders err with the status of its kind
func Error(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	return c.Status(StatusFor(kind)).JSON(fiber.Map{
		"ok":    false,
		"kind":  kind,
		"error": err.Error(),
	})
}

// BadRequest reports malformed input that never reached a service
func BadRequest(c *fiber.Ctx, msg string) error {
	return Error(c, apperr.Validation("%s", msg))
}

// OK renders the success envelope with the given fields
func OK(c *fiber.Ctx, status int, data fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
