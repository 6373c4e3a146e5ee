package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
)

// SalesLogic records and lists sales for the store selected on its service
type SalesLogic struct {
	svc *StoreService
}

func (l *SalesLogic) Record(ctx context.Context, storeID string, in model.SaleInput) (sale *model.Sale, err error) {
	s := l.svc
	defer recoverBackend(s.log, "RecordSale", &err)

	// 1. Guards
	user, err := s.requireMutation(storeID)
	if err != nil {
		return nil, err
	}

	// 2. Required fields
	in.ProductID = strings.TrimSpace(in.ProductID)
	if err := validationError(&in); err != nil {
		return nil, err
	}
	unitPrice, err := model.ParseAmount(in.UnitPrice)
	if err != nil {
		return nil, apperr.Validation("unit_price: %v", err)
	}

	// 3. The product must exist in this store
	product, err := s.backend.GetProduct(ctx, storeID, in.ProductID)
	if err != nil {
		return nil, fromBackend(err, "product")
	}

	// 4. Stock check, only when the product tracks stock
	if product.HasStock() && in.Quantity > *product.Stock {
		return nil, apperr.New(apperr.KindStockInsufficient, "insufficient stock, available: %d", *product.Stock)
	}

	// 5. Persist the sale with its derived total
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		name = product.Name
	}
	sale = &model.Sale{
		StoreID:     storeID,
		ProductID:   in.ProductID,
		ProductName: security.Clean(name),
		Quantity:    in.Quantity,
		UnitPrice:   unitPrice,
		StaffID:     strings.TrimSpace(in.StaffID),
		Notes:       security.Clean(in.Notes),
	}
	if err := sale.ComputeTotal(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid sale total")
	}
	sale.CreatedBy = user
	sale.UpdatedBy = user
	id, err := s.backend.RecordSale(ctx, sale)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	sale.ID = id

	// 6. Best-effort stock decrement; the sale stands even if this fails
	if product.HasStock() {
		l.decrementStock(ctx, storeID, product, in.Quantity)
	}

	return sale, nil
}

func (l *SalesLogic) decrementStock(ctx context.Context, storeID string, product *model.Product, quantity int) {
	log := l.svc.log.With(zap.String("store_id", storeID), zap.String("product_id", product.ID))
	defer func() {
		if r := recover(); r != nil {
			log.Error("stock update after sale panicked", zap.Any("panic", r))
		}
	}()

	remaining := *product.Stock - quantity
	if remaining < 0 {
		return
	}
	if err := l.svc.backend.UpdateProduct(ctx, storeID, product.ID, model.ProductUpdate{Stock: &remaining}); err != nil {
		log.Warn("stock update after sale failed", zap.Error(err))
	}
}

func (l *SalesLogic) List(ctx context.Context, storeID string, limit int) (sales []model.Sale, err error) {
	s := l.svc
	defer recoverBackend(s.log, "ListSales", &err)

	if err := s.requireStore(storeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSalesLimit
	}
	return listNewestFirst(s.log, "sales", limit, func(q backend.ListQuery) ([]model.Sale, error) {
		return s.backend.ListSales(ctx, storeID, q)
	})
}

// ListBetween returns the sales whose timestamp falls in [start, end]
func (l *SalesLogic) ListBetween(ctx context.Context, storeID string, start, end time.Time) (sales []model.Sale, err error) {
	s := l.svc
	defer recoverBackend(s.log, "ListSalesBetween", &err)

	if err := s.requireStore(storeID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("end must not be before start")
	}
	sales, err = s.backend.ListSalesBetween(ctx, storeID, start, end)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	return sales, nil
}

func (l *SalesLogic) Delete(ctx context.Context, storeID, saleID string) (err error) {
	s := l.svc
	defer recoverBackend(s.log, "DeleteSale", &err)

	if _, err := s.requireMutation(storeID); err != nil {
		return err
	}
	if err := s.backend.DeleteSale(ctx, storeID, saleID); err != nil {
		return fromBackend(err, "sale")
	}
	return nil
}

func (s *StoreService) RecordSale(ctx context.Context, storeID string, in model.SaleInput) (*model.Sale, error) {
	return s.sales.Record(ctx, storeID, in)
}

func (s *StoreService) ListSales(ctx context.Context, storeID string, limit int) ([]model.Sale, error) {
	return s.sales.List(ctx, storeID, limit)
}

func (s *StoreService) ListSalesBetween(ctx context.Context, storeID string, start, end time.Time) ([]model.Sale, error) {
	return s.sales.ListBetween(ctx, storeID, start, end)
}

func (s *StoreService) DeleteSale(ctx context.Context, storeID, saleID string) error {
	return s.sales.Delete(ctx, storeID, saleID)
}
