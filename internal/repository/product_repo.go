package repository

import (
	"context"

	"gorm.io/gorm"

	"go-retail-ws/internal/model"
)

type productRepo struct {
	db *gorm.DB
}

func newProductRepo(db *gorm.DB) *productRepo {
	return &productRepo{db}
}

func (r *productRepo) CreateProduct(ctx context.Context, storeID string, product *model.Product) (string, error) {
	db := r.db.WithContext(ctx)
	if err := storeExists(db, storeID); err != nil {
		return "", err
	}
	product.StoreID = storeID
	if err := db.Create(product).Error; err != nil {
		return "", err
	}
	return product.ID, nil
}

func (r *productRepo) GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "id = ? AND store_id = ?", productID, storeID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepo) ListProducts(ctx context.Context, storeID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateProduct(ctx context.Context, storeID, productID string, update model.ProductUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Stock != nil {
		fields["stock"] = *update.Stock
	}
	return affected(r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND store_id = ?", productID, storeID).
		Updates(fields))
}

func (r *productRepo) DeleteProduct(ctx context.Context, storeID, productID string) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Product{}, "id = ? AND store_id = ?", productID, storeID))
}
