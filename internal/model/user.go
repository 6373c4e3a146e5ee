package model

import (
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// RoleOwner is the only account role allowed to log in
const RoleOwner = "owner"

// Account holds login credentials. It never leaves the backend.
type Account struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// SetPassword hashes and sets the account password
func (a *Account) SetPassword(password string) error {
	return a.SetPasswordWithCost(password, bcrypt.DefaultCost)
}

// SetPasswordWithCost hashes with an explicit bcrypt cost
func (a *Account) SetPasswordWithCost(password string, cost int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	a.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}

// Profile is the user document keyed by the account id
type Profile struct {
	BaseModel
	Email         string         `gorm:"type:varchar(255);index" json:"email"`
	Name          string         `gorm:"type:varchar(255)" json:"name"`
	Role          string         `gorm:"type:varchar(20);default:'owner'" json:"role"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	OwnedStoreIDs pq.StringArray `gorm:"type:text[]" json:"owned_store_ids"`
}

// OwnsStore reports whether storeID is in the owned list
func (p *Profile) OwnsStore(storeID string) bool {
	for _, id := range p.OwnedStoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// AddOwnedStore appends storeID once; the list is append-only.
func (p *Profile) AddOwnedStore(storeID string) {
	if !p.OwnsStore(storeID) {
		p.OwnedStoreIDs = append(p.OwnedStoreIDs, storeID)
	}
}
