package model

import (
	"math"
	"time"
)

type Sale struct {
	BaseModel
	StoreID     string    `gorm:"type:varchar(64);index;not null" json:"store_id"`
	ProductID   string    `gorm:"type:varchar(64);index;not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255)" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`
	Total       int64     `gorm:"not null" json:"total"` // Snapshot unit_price * quantity
	StaffID     string    `gorm:"type:varchar(64)" json:"staff_id,omitempty"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

// SaleInput is what an adapter collects to record a sale
type SaleInput struct {
	ProductID   string `json:"product_id" validate:"required"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   string `json:"unit_price" validate:"required,amount"`
	StaffID     string `json:"staff_id"`
	Notes       string `json:"notes"`
}

// ComputeTotal derives the sale total; it is never set independently.
// It fails with ErrAmountOverflow when the total does not fit in int64.
func (s *Sale) ComputeTotal() error {
	if s.Quantity < 0 || s.UnitPrice < 0 {
		return ErrInvalidAmount
	}
	if s.Quantity > 0 && s.UnitPrice > math.MaxInt64/int64(s.Quantity) {
		return ErrAmountOverflow
	}
	s.Total = int64(s.Quantity) * s.UnitPrice
	return nil
}

// SortTime is the ordering key; a zero timestamp sorts as the minimum.
func (s Sale) SortTime() time.Time { return s.Timestamp }
