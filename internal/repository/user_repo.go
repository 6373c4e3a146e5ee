package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

// AccountRepository is the credential side of the backend plus the
// administrative password reset.
type AccountRepository interface {
	backend.Accounts
	UpdatePassword(ctx context.Context, email, password string) error
}

type accountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db}
}

func (r *accountRepo) findByEmail(db *gorm.DB, email string) (*model.Account, error) {
	var account model.Account
	if err := db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount stores the credentials and a matching owner profile row
func (r *accountRepo) CreateAccount(ctx context.Context, email, password string) (string, error) {
	account := &model.Account{Email: email, IsActive: true}
	if err := account.SetPassword(password); err != nil {
		return "", err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Reject duplicates regardless of case
		if _, err := r.findByEmail(tx, email); err == nil {
			return backend.ErrDuplicateEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 2. Account row
		if err := tx.Create(account).Error; err != nil {
			return translate(err)
		}

		// 3. Profile row sharing the account id
		profile := &model.Profile{Email: email, Role: model.RoleOwner, IsActive: true}
		profile.ID = account.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

func (r *accountRepo) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	account, err := r.findByEmail(r.db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", backend.ErrInvalidCredentials
		}
		return "", err
	}
	if !account.IsActive || !account.CheckPassword(password) {
		return "", backend.ErrInvalidCredentials
	}
	return account.ID, nil
}

func (r *accountRepo) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// SaveProfile upserts the profile; owned store ids already stored are kept
func (r *accountRepo) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		return errors.New("profile id is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Profile
		err := tx.First(&existing, "id = ?", profile.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(profile).Error
		case err != nil:
			return err
		}

		for _, id := range existing.OwnedStoreIDs {
			profile.AddOwnedStore(id)
		}
		profile.CreatedAt = existing.CreatedAt
		return tx.Save(profile).Error
	})
}

// UpdatePassword is used by the reset-password command
func (r *accountRepo) UpdatePassword(ctx context.Context, email, password string) error {
	account, err := r.findByEmail(r.db.WithContext(ctx), email)
	if err != nil {
		return translate(err)
	}
	if err := account.SetPassword(password); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(account).Update("password", account.Password).Error
}
