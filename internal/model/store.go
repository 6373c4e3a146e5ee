package model

// Store is a shop owned by a single profile
type Store struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Address  string `gorm:"type:varchar(255);not null" json:"address"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	OwnerID  string `gorm:"type:varchar(64);index;not null" json:"owner_id"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// StoreInput is what an adapter collects to create a store
type StoreInput struct {
	Name    string `json:"name" validate:"required,trimmed_min=2"`
	Address string `json:"address" validate:"required,trimmed_min=1"`
	Phone   string `json:"phone"`
}

// StaffMember is an employee entry scoped to a store. UserID links the
// entry to an account for permission checks.
type StaffMember struct {
	BaseModel
	StoreID string `gorm:"type:varchar(64);index;not null" json:"store_id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Role    string `gorm:"type:varchar(20);not null" json:"role"`
	UserID  string `gorm:"type:varchar(64);index" json:"user_id,omitempty"`
	PIN     string `gorm:"type:varchar(12)" json:"pin,omitempty"`
}

// StaffInput is used to add a staff member
type StaffInput struct {
	Name   string `json:"name" validate:"required,trimmed_min=1"`
	Role   string `json:"role" validate:"required,trimmed_min=1"`
	UserID string `json:"user_id"`
	PIN    string `json:"pin"`
}

// StaffUpdate carries optional staff changes; nil fields are left untouched
type StaffUpdate struct {
	Name   *string `json:"name" validate:"omitempty,trimmed_min=1"`
	Role   *string `json:"role" validate:"omitempty,trimmed_min=1"`
	UserID *string `json:"user_id"`
	PIN    *string `json:"pin"`
}

// IsEmpty reports whether the update changes nothing
func (u StaffUpdate) IsEmpty() bool {
	return u.Name == nil && u.Role == nil && u.UserID == nil && u.PIN == nil
}
