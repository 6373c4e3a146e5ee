package repository

import (
	"context"

	"gorm.io/gorm"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

type staffRepo struct {
	db *gorm.DB
}

func newStaffRepo(db *gorm.DB) *staffRepo {
	return &staffRepo{db}
}

func storeExists(db *gorm.DB, storeID string) error {
	var n int64
	if err := db.Model(&model.Store{}).Where("id = ?", storeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func (r *staffRepo) AddStaff(ctx context.Context, storeID string, staff *model.StaffMember) (string, error) {
	db := r.db.WithContext(ctx)
	if err := storeExists(db, storeID); err != nil {
		return "", err
	}
	staff.StoreID = storeID
	if err := db.Create(staff).Error; err != nil {
		return "", err
	}
	return staff.ID, nil
}

func (r *staffRepo) ListStaff(ctx context.Context, storeID string) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at ASC").Find(&staff).Error
	return staff, err
}

func (r *staffRepo) UpdateStaff(ctx context.Context, storeID, staffID string, update model.StaffUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if update.UserID != nil {
		fields["user_id"] = *update.UserID
	}
	if update.PIN != nil {
		fields["pin"] = *update.PIN
	}
	return affected(r.db.WithContext(ctx).Model(&model.StaffMember{}).
		Where("id = ? AND store_id = ?", staffID, storeID).
		Updates(fields))
}

func (r *staffRepo) DeleteStaff(ctx context.Context, storeID, staffID string) error {
	return affected(r.db.WithContext(ctx).Delete(&model.StaffMember{}, "id = ? AND store_id = ?", staffID, storeID))
}
