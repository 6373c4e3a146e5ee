package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles the document ID (UUID string) and audit trails
type BaseModel struct {
	ID        string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // Soft delete support

	// Audit user tracking
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

// BeforeCreate assigns an ID unless the caller already chose one
// (accounts and profiles share the backend-assigned user id).
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	base.EnsureID()
	return
}

// EnsureID fills ID with a fresh UUID when empty.
func (base *BaseModel) EnsureID() {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
}
