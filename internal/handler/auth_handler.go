package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/middleware"
	"go-retail-ws/internal/service"
	"go-retail-ws/pkg/jwt"
)

type AuthHandler struct {
	authService service.AuthService
	workspaces  *service.Workspaces
}

func NewAuthHandler(authService service.AuthService, workspaces *service.Workspaces) *AuthHandler {
	return &AuthHandler{authService: authService, workspaces: workspaces}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// issue signs the bearer token and opens the session workspace
func (h *AuthHandler) issue(c *fiber.Ctx, status int, res *service.AuthResult) error {
	token, err := jwt.GenerateToken(res.SessionToken, res.UserID, res.Profile.Email, res.Profile.Role, res.ExpiresAt)
	if err != nil {
		return fail(c, apperr.Wrap(apperr.KindBackend, err, "failed to generate token"))
	}
	h.workspaces.Open(res.SessionToken, res)

	return ok(c, status, fiber.Map{
		"token":      token,
		"user_id":    res.UserID,
		"expires_at": res.ExpiresAt,
		"user_data":  res.Profile,
	})
}

// Register creates an owner account and logs it in
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	res, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, fiber.StatusCreated, res)
}

// Login handles owner authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, fiber.StatusOK, res)
}

// Logout destroys the session behind the bearer token
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := middleware.SessionID(c)
	if err := h.authService.Logout(c.UserContext(), sid); err != nil {
		return fail(c, err)
	}
	h.workspaces.Close(sid)
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Logged out"})
}

// Me returns the session data with a freshly read profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	data, err := h.authService.GetSessionData(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return fail(c, err)
	}

	svc, _ := workspace(c)
	resp := fiber.Map{
		"user_id":    data.UserID,
		"session_id": data.SessionID,
		"expires_at": data.ExpiresAt,
		"user_data":  data.Profile,
	}
	if svc != nil {
		svc.SetCurrentUser(data)
		resp["current_store"] = svc.CurrentStore()
	}
	return ok(c, fiber.StatusOK, resp)
}
