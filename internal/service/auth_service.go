package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
	"go-retail-ws/internal/session"
	"go-retail-ws/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetSessionData(ctx context.Context, token string) (*SessionData, error)
}

// RegisterRequest fields are declared in the order they are checked
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,store_email"`
	Password string `json:"password" validate:"required,strong_password"`
	Name     string `json:"name" validate:"required,trimmed_min=3"`
}

type AuthResult struct {
	UserID       string        `json:"user_id"`
	SessionToken string        `json:"session_token"`
	ExpiresAt    time.Time     `json:"expires_at"`
	Profile      model.Profile `json:"user_data"`
}

type SessionData struct {
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id"`
	ExpiresAt time.Time     `json:"expires_at"`
	Profile   model.Profile `json:"user_data"`
}

type authService struct {
	accounts backend.Accounts
	sessions session.Store
	log      *zap.Logger
}

func NewAuthService(accounts backend.Accounts, sessions session.Store, log *zap.Logger) AuthService {
	return &authService{
		accounts: accounts,
		sessions: sessions,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (res *AuthResult, err error) {
	defer recoverBackend(s.log, "Register", &err)

	// 1. Validate input before touching the backend
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.FirstError(&req); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	// 2. Create the credential account
	userID, err := s.accounts.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.KindAccountExists, "an account with this email already exists")
		}
		return nil, apperr.Backend(err)
	}

	// 3. Save the owner profile
	profile := &model.Profile{
		Email:    req.Email,
		Name:     security.Clean(req.Name),
		Role:     model.RoleOwner,
		IsActive: true,
	}
	profile.ID = userID
	profile.CreatedBy = userID
	if err := s.accounts.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.Backend(err)
	}

	// 4. Open the session
	sess := s.sessions.Create(userID, model.RoleOwner, "")
	s.log.Info("account registered", zap.String("user_id", userID))

	return &AuthResult{
		UserID:       userID,
		SessionToken: sess.Token,
		ExpiresAt:    sess.ExpiresAt,
		Profile:      *profile,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	defer recoverBackend(s.log, "Login", &err)

	// 1. Verify credentials; unknown email and wrong password look the same
	userID, err := s.accounts.VerifyCredentials(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) || errors.Is(err, backend.ErrNotFound) {
			return nil, apperr.New(apperr.KindInvalidCredentials, "invalid email or password")
		}
		return nil, apperr.Backend(err)
	}

	// 2. Load the profile
	profile, err := s.accounts.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			s.log.Warn("login for account without profile", zap.String("user_id", userID))
			return nil, apperr.New(apperr.KindInvalidCredentials, "invalid email or password")
		}
		return nil, apperr.Backend(err)
	}

	// 3. Only store owners may log in
	if profile.Role != model.RoleOwner {
		return nil, apperr.Auth("only store owners can log in")
	}

	// 4. Open the session
	sess := s.sessions.Create(userID, profile.Role, "")

	return &AuthResult{
		UserID:       userID,
		SessionToken: sess.Token,
		ExpiresAt:    sess.ExpiresAt,
		Profile:      *profile,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := s.sessions.Validate(token); err != nil {
		return apperr.Wrap(apperr.KindInvalidSession, err, "invalid session")
	}
	if err := s.sessions.Destroy(token); err != nil {
		return apperr.Wrap(apperr.KindInvalidSession, err, "invalid session")
	}
	return nil
}

func (s *authService) GetSessionData(ctx context.Context, token string) (data *SessionData, err error) {
	defer recoverBackend(s.log, "GetSessionData", &err)

	// 1. Re-validate the session on every call
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidSession, err, "invalid session")
	}

	// 2. Fetch the profile fresh so edits are visible immediately
	profile, err := s.accounts.GetProfile(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, apperr.Backend(err)
	}

	return &SessionData{
		UserID:    sess.UserID,
		SessionID: sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Profile:   *profile,
	}, nil
}
