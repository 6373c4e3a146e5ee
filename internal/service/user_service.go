package service

import (
	"context"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
)

// UserService reads and edits owner profiles. Edits are visible to active
// sessions on their next GetSessionData call.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.Profile, error)
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,trimmed_min=3"`
}

type userService struct {
	accounts backend.Accounts
	log      *zap.Logger
}

func NewUserService(accounts backend.Accounts, log *zap.Logger) UserService {
	return &userService{accounts: accounts, log: log}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (profile *model.Profile, err error) {
	defer recoverBackend(s.log, "GetProfile", &err)

	profile, err = s.accounts.GetProfile(ctx, userID)
	if err != nil {
		return nil, fromBackend(err, "account")
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (profile *model.Profile, err error) {
	defer recoverBackend(s.log, "UpdateProfile", &err)

	// 1. Validate
	if err := validationError(&req); err != nil {
		return nil, err
	}

	// 2. Load the current profile
	profile, err = s.accounts.GetProfile(ctx, userID)
	if err != nil {
		return nil, fromBackend(err, "account")
	}

	// 3. Apply and save; owned stores are kept by the backend
	profile.Name = security.Clean(req.Name)
	profile.UpdatedBy = userID
	if err := s.accounts.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.Backend(err)
	}
	return profile, nil
}
