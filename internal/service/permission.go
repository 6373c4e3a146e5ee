package service

import (
	"context"

	"go.uber.org/zap"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

// PermissionResolver answers product permission questions. Every lookup
// failure resolves to "not allowed".
type PermissionResolver interface {
	HasPermission(ctx context.Context, userID, storeID string, action model.Action) bool
	IsOwner(ctx context.Context, userID, storeID string) bool
}

type storeDirectory interface {
	backend.Stores
	backend.StaffDirectory
}

type permissionResolver struct {
	directory storeDirectory
	log       *zap.Logger
}

func NewPermissionResolver(directory storeDirectory, log *zap.Logger) PermissionResolver {
	return &permissionResolver{directory: directory, log: log}
}

func (r *permissionResolver) IsOwner(ctx context.Context, userID, storeID string) (owner bool) {
	defer r.failClosed("IsOwner", &owner)

	if userID == "" || storeID == "" {
		return false
	}
	ok, err := r.directory.VerifyOwner(ctx, userID, storeID)
	if err != nil {
		r.log.Debug("owner lookup failed", zap.String("store_id", storeID), zap.Error(err))
		return false
	}
	return ok
}

func (r *permissionResolver) HasPermission(ctx context.Context, userID, storeID string, action model.Action) (allowed bool) {
	defer r.failClosed("HasPermission", &allowed)

	// 1. Owners can do everything in their store
	if r.IsOwner(ctx, userID, storeID) {
		return true
	}
	if userID == "" || storeID == "" {
		return false
	}

	// 2. Otherwise the first staff entry linked to the user decides
	staff, err := r.directory.ListStaff(ctx, storeID)
	if err != nil {
		r.log.Debug("staff lookup failed", zap.String("store_id", storeID), zap.Error(err))
		return false
	}
	for _, member := range staff {
		if member.UserID == "" || member.UserID != userID {
			continue
		}
		role, ok := model.FindRole(member.Role)
		if !ok {
			return false
		}
		return role.Grants(action)
	}
	return false
}

func (r *permissionResolver) failClosed(op string, result *bool) {
	if rec := recover(); rec != nil {
		r.log.Error("permission lookup panicked", zap.String("op", op), zap.Any("panic", rec))
		*result = false
	}
}
