package service

import (
	"context"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
)

func (s *StoreService) CreateProduct(ctx context.Context, storeID string, in model.ProductInput) (product *model.Product, err error) {
	defer recoverBackend(s.log, "CreateProduct", &err)

	// 1. Guards
	user, err := s.requireMutation(storeID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, user, storeID, model.ActionProductCreate); err != nil {
		return nil, err
	}

	// 2. Validate and parse the numeric text once
	if err := validationError(&in); err != nil {
		return nil, err
	}
	price, err := model.ParseAmount(in.Price)
	if err != nil {
		return nil, apperr.Validation("price: %v", err)
	}
	stock, err := model.ParseStock(in.Stock)
	if err != nil {
		return nil, apperr.Validation("stock: %v", err)
	}

	// 3. Persist
	product = &model.Product{
		StoreID: storeID,
		Name:    security.Clean(in.Name),
		Price:   price,
		Stock:   stock,
	}
	product.CreatedBy = user
	product.UpdatedBy = user
	id, err := s.backend.CreateProduct(ctx, storeID, product)
	if err != nil {
		return nil, fromBackend(err, "store")
	}
	product.ID = id

	s.log.Debug("product created", zap.String("store_id", storeID), zap.String("product_id", id))
	return product, nil
}

func (s *StoreService) UpdateProduct(ctx context.Context, storeID, productID string, patch model.ProductPatch) (err error) {
	defer recoverBackend(s.log, "UpdateProduct", &err)

	// 1. Guards
	user, err := s.requireMutation(storeID)
	if err != nil {
		return err
	}
	if err := s.requirePermission(ctx, user, storeID, model.ActionProductUpdate); err != nil {
		return err
	}

	// 2. Parse the patch
	if err := validationError(&patch); err != nil {
		return err
	}
	upd, err := parseProductPatch(patch)
	if err != nil {
		return err
	}
	if upd.IsEmpty() {
		return apperr.Validation("nothing to update")
	}

	// 3. Persist
	if err := s.backend.UpdateProduct(ctx, storeID, productID, upd); err != nil {
		return fromBackend(err, "product")
	}
	return nil
}

func (s *StoreService) DeleteProduct(ctx context.Context, storeID, productID string) (err error) {
	defer recoverBackend(s.log, "DeleteProduct", &err)

	user, err := s.requireMutation(storeID)
	if err != nil {
		return err
	}
	if err := s.requirePermission(ctx, user, storeID, model.ActionProductDelete); err != nil {
		return err
	}
	if err := s.backend.DeleteProduct(ctx, storeID, productID); err != nil {
		return fromBackend(err, "product")
	}
	return nil
}

func (s *StoreService) ListProducts(ctx context.Context, storeID string) (products []model.Product, err error) {
	defer recoverBackend(s.log, "ListProducts", &err)

	if err := s.requireStore(storeID); err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, s.CurrentUser(), storeID, model.ActionProductView); err != nil {
		return nil, err
	}
	products, err = s.backend.ListProducts(ctx, storeID)
	if err != nil {
		return nil, fromBackend(err, "store")
	}
	return products, nil
}

func parseProductPatch(patch model.ProductPatch) (model.ProductUpdate, error) {
	var upd model.ProductUpdate
	if patch.Name != nil {
		name := security.Clean(*patch.Name)
		upd.Name = &name
	}
	if patch.Price != nil {
		price, err := model.ParseAmount(*patch.Price)
		if err != nil {
			return upd, apperr.Validation("price: %v", err)
		}
		upd.Price = &price
	}
	if patch.Stock != nil {
		stock, err := model.ParseStock(*patch.Stock)
		if err != nil {
			return upd, apperr.Validation("stock: %v", err)
		}
		// an explicit empty value leaves stock as it is
		upd.Stock = stock
	}
	return upd, nil
}
