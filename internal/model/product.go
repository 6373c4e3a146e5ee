package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidAmount  = errors.New("amount must be a non-negative number with at most two decimals")
	ErrInvalidStock   = errors.New("stock must be a non-negative integer")
	ErrAmountOverflow = errors.New("amount is too large")
)

// Product is a sellable item of a store. Price is kept in minor units
// (cents); Stock is nil when the store does not track inventory for it.
type Product struct {
	BaseModel
	StoreID string `gorm:"type:varchar(64);index;not null" json:"store_id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Price   int64  `gorm:"default:0" json:"price"`
	Stock   *int   `json:"stock,omitempty"`
}

// HasStock reports whether the product tracks inventory
func (p *Product) HasStock() bool { return p.Stock != nil }

// ProductInput is collected by adapters; numbers arrive as text
type ProductInput struct {
	Name  string `json:"name" validate:"required,trimmed_min=2"`
	Price string `json:"price" validate:"required,amount"`
	Stock string `json:"stock" validate:"omitempty,numeric"`
}

// ProductPatch carries optional product changes as collected by adapters
type ProductPatch struct {
	Name  *string `json:"name" validate:"omitempty,trimmed_min=2"`
	Price *string `json:"price" validate:"omitempty,amount"`
	Stock *string `json:"stock" validate:"omitempty,numeric"`
}

// ProductUpdate is the parsed form handed to the backend
type ProductUpdate struct {
	Name  *string
	Price *int64
	Stock *int
}

// IsEmpty reports whether the update changes nothing
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.Stock == nil
}

// ParseAmount converts a decimal string ("12", "12.5", "12.50") into minor units.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxAmountUnits {
		return 0, ErrInvalidAmount
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	return units*100 + cents, nil
}

// maxAmountUnits keeps units*100+99 within int64
const maxAmountUnits = (math.MaxInt64 - 99) / 100

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders minor units as a decimal string with two fraction digits
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	frac := strconv.FormatInt(v%100, 10)
	if len(frac) < 2 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + frac
}

// ParseStock converts an optional integer string; empty means "not tracked".
func ParseStock(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, ErrInvalidStock
	}
	return &n, nil
}
