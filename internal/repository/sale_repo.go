package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

type saleRepo struct {
	db *gorm.DB
}

func newSaleRepo(db *gorm.DB) *saleRepo {
	return &saleRepo{db}
}

func (r *saleRepo) RecordSale(ctx context.Context, sale *model.Sale) (string, error) {
	if sale.Timestamp.IsZero() {
		sale.Timestamp = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return "", err
	}
	return sale.ID, nil
}

// ListSales orders on the indexed timestamp column, so the ordered query is
// always available here.
func (r *saleRepo) ListSales(ctx context.Context, storeID string, q backend.ListQuery) ([]model.Sale, error) {
	var sales []model.Sale
	db := limitQuery(r.db.WithContext(ctx).Where("store_id = ?", storeID), q)
	err := db.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListSalesBetween(ctx context.Context, storeID string, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND timestamp BETWEEN ? AND ?", storeID, start, end).
		Order("timestamp ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) DeleteSale(ctx context.Context, storeID, saleID string) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Sale{}, "id = ? AND store_id = ?", saleID, storeID))
}
