package repository

import (
	"context"

	"gorm.io/gorm"

	"go-retail-ws/internal/model"
)

type storeRepo struct {
	db *gorm.DB
}

func newStoreRepo(db *gorm.DB) *storeRepo {
	return &storeRepo{db}
}

func (r *storeRepo) CreateStore(ctx context.Context, store *model.Store) (string, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Store row
		store.IsActive = true
		if err := tx.Create(store).Error; err != nil {
			return err
		}

		// 2. Append to the owner's list, creating the profile row if missing
		res := tx.Model(&model.Profile{}).
			Where("id = ?", store.OwnerID).
			Update("owned_store_ids", gorm.Expr("array_append(owned_store_ids, ?)", store.ID))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			profile := &model.Profile{Role: model.RoleOwner, IsActive: true}
			profile.ID = store.OwnerID
			profile.AddOwnedStore(store.ID)
			return tx.Create(profile).Error
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

func (r *storeRepo) GetStore(ctx context.Context, storeID string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", storeID).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

// GetStoresForUser returns the owned stores in the order they were created
func (r *storeRepo) GetStoresForUser(ctx context.Context, userID string) ([]model.Store, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	if len(profile.OwnedStoreIDs) == 0 {
		return []model.Store{}, nil
	}

	var found []model.Store
	if err := r.db.WithContext(ctx).Where("id IN ?", []string(profile.OwnedStoreIDs)).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.Store, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	stores := make([]model.Store, 0, len(found))
	for _, id := range profile.OwnedStoreIDs {
		if s, ok := byID[id]; ok {
			stores = append(stores, s)
		}
	}
	return stores, nil
}

func (r *storeRepo) VerifyOwner(ctx context.Context, userID, storeID string) (bool, error) {
	store, err := r.GetStore(ctx, storeID)
	if err != nil {
		return false, err
	}
	return store.OwnerID == userID, nil
}
