package service

import (
	"context"

	"go-retail-ws/internal/model"
)

// LowStockThreshold marks tracked products that need restocking
const LowStockThreshold = 10

type StoreSummary struct {
	StoreID       string         `json:"store_id"`
	Revenue       int64          `json:"revenue"`
	Sales         SalesCount     `json:"sales"`
	TopProducts   []ProductStats `json:"top_products"`
	ProductCount  int            `json:"product_count"`
	LowStockCount int            `json:"low_stock_count"`
}

// Summary aggregates the latest sales and the product catalogue of the
// selected store. It needs the view permission.
func (s *StoreService) Summary(ctx context.Context, storeID string) (*StoreSummary, error) {
	// 1. Products (runs the scope and view permission guards)
	products, err := s.ListProducts(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// 2. Latest sales
	sales, err := s.ListSales(ctx, storeID, DefaultSalesLimit)
	if err != nil {
		return nil, err
	}

	// 3. Aggregate
	summary := &StoreSummary{
		StoreID:      storeID,
		Revenue:      CalculateRevenue(sales),
		Sales:        CalculateSalesCount(sales),
		TopProducts:  TopProducts(sales, DefaultTopProducts),
		ProductCount: len(products),
	}
	summary.LowStockCount = countLowStock(products)
	return summary, nil
}

func countLowStock(products []model.Product) int {
	n := 0
	for _, p := range products {
		if p.HasStock() && *p.Stock < LowStockThreshold {
			n++
		}
	}
	return n
}
