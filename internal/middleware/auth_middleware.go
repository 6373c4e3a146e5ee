package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/service"
	"go-retail-ws/internal/session"
	"go-retail-ws/pkg/jwt"
	"go-retail-ws/pkg/response"
)

const (
	localUserID    = "user_id"
	localSessionID = "session_id"
	localWorkspace = "workspace"
)

// SocketTokenParam carries the bearer token on websocket upgrades, where
// browsers cannot set an Authorization header.
const SocketTokenParam = "access_token"

// RequireAuth validates the bearer JWT, then the session it carries, and
// attaches the session's workspace to the request.
func RequireAuth(sessions session.Store, workspaces *service.Workspaces) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		raw, err := bearerToken(c.Get("Authorization"))
		if err != nil {
			return response.Error(c, err)
		}

		sess, sid, err := authenticate(sessions, raw)
		if err != nil {
			if sid != "" {
				workspaces.Close(sid)
			}
			return response.Error(c, err)
		}

		c.Locals(localUserID, sess.UserID)
		c.Locals(localSessionID, sess.Token)
		c.Locals(localWorkspace, workspaces.Open(sess.Token, sess.UserID))

		return c.Next()
	}
}

// RequireSocketAuth authenticates a websocket upgrade from the Authorization
// header or the access_token query parameter. It binds the connection to the
// session but opens no workspace.
func RequireSocketAuth(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" && c.Query(SocketTokenParam) != "" {
			header = "Bearer " + c.Query(SocketTokenParam)
		}
		raw, err := bearerToken(header)
		if err != nil {
			return response.Error(c, err)
		}

		sess, _, err := authenticate(sessions, raw)
		if err != nil {
			return response.Error(c, err)
		}

		c.Locals(localUserID, sess.UserID)
		c.Locals(localSessionID, sess.Token)
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.Auth("missing authorization token")
	}
	// Extract token from "Bearer <token>"
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperr.Auth("invalid authorization format, use: Bearer <token>")
	}
	return parts[1], nil
}

// authenticate checks the JWT, then the server-side session it names. sid is
// the session id from a well-formed token, set even when the session is gone.
func authenticate(sessions session.Store, raw string) (sess session.Session, sid string, err error) {
	claims, err := jwt.ValidateToken(raw)
	if err != nil {
		return session.Session{}, "", apperr.Auth("invalid or expired token")
	}

	// The server-side session decides, not the token
	sess, err = sessions.Validate(claims.SessionID)
	if err != nil || sess.UserID != claims.UserID {
		return session.Session{}, claims.SessionID, apperr.New(apperr.KindInvalidSession, "session expired")
	}
	return sess, claims.SessionID, nil
}

// RequireAction rejects product routes early when the caller lacks the
// action on the :storeID of the route. The store must already be selected.
func RequireAction(action model.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc := Workspace(c)
		if svc == nil {
			return response.Error(c, apperr.Auth("not authenticated"))
		}

		storeID := c.Params("storeID")
		current := svc.CurrentStore()
		if current == "" {
			return response.Error(c, apperr.Auth("no store selected"))
		}
		if storeID != current {
			return response.Error(c, apperr.Auth("store %s is not the selected store", storeID))
		}
		if !svc.HasPermission(c.UserContext(), svc.CurrentUser(), storeID, action) {
			return response.Error(c, apperr.PermissionDenied("missing permission %s", action))
		}
		return c.Next()
	}
}

// Workspace returns the StoreService bound to the request's session
func Workspace(c *fiber.Ctx) *service.StoreService {
	svc, _ := c.Locals(localWorkspace).(*service.StoreService)
	return svc
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
