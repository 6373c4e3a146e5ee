// Package repository is the PostgreSQL implementation of backend.Backend on
// top of gorm. Every document type lives in its own table keyed by a string id.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"go-retail-ws/internal/backend"
)

type gormBackend struct {
	*accountRepo
	*storeRepo
	*staffRepo
	*productRepo
	*saleRepo
	*metricRepo
}

// NewBackend composes the table repositories into the full backend contract
func NewBackend(db *gorm.DB) backend.Backend {
	return &gormBackend{
		accountRepo: &accountRepo{db},
		storeRepo:   newStoreRepo(db),
		staffRepo:   newStaffRepo(db),
		productRepo: newProductRepo(db),
		saleRepo:    newSaleRepo(db),
		metricRepo:  newMetricRepo(db),
	}
}

// translate maps gorm errors onto backend sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return backend.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return backend.ErrDuplicateEmail
	}
	return err
}

// affected reports ErrNotFound when an update or delete matched no row
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return backend.ErrNotFound
	}
	return nil
}

func limitQuery(db *gorm.DB, q backend.ListQuery) *gorm.DB {
	if q.Descending {
		db = db.Order("timestamp DESC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}
