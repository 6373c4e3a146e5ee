package service

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/backend/memory"
	"go-retail-ws/internal/model"
)

func TestSales_RecordDecrementsStock(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "10")

	sale, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 4, UnitPrice: "2.50"})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sale.Total)
	assert.Equal(t, "Coffee", sale.ProductName, "name is filled from the product")
	assert.False(t, sale.Timestamp.IsZero())

	product, err := f.backend.GetProduct(f.ctx, f.storeID, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, *product.Stock)
}

func TestSales_SellingTheLastUnits(t *testing.T) {
	f := newFixture(t).withStore(t)
	tea := f.addProduct(t, "Tea", "1.20", "3")

	sale, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: tea.ID, Quantity: 3, UnitPrice: "1.20"})
	require.NoError(t, err)
	assert.Equal(t, int64(360), sale.Total)

	product, err := f.backend.GetProduct(f.ctx, f.storeID, tea.ID)
	require.NoError(t, err)
	require.NotNil(t, product.Stock)
	assert.Equal(t, 0, *product.Stock)

	_, err = f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: tea.ID, Quantity: 1, UnitPrice: "1.20"})
	assert.ErrorIs(t, err, apperr.ErrStockInsufficient)
	assert.Contains(t, err.Error(), "available: 0")
}

func TestSales_RecordValidation(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "3")

	tests := []struct {
		name string
		in   model.SaleInput
		want error
	}{
		{"missing product", model.SaleInput{Quantity: 1, UnitPrice: "1"}, apperr.ErrValidation},
		{"zero quantity", model.SaleInput{ProductID: coffee.ID, UnitPrice: "1"}, apperr.ErrValidation},
		{"negative quantity", model.SaleInput{ProductID: coffee.ID, Quantity: -1, UnitPrice: "1"}, apperr.ErrValidation},
		{"bad price", model.SaleInput{ProductID: coffee.ID, Quantity: 1, UnitPrice: "1.999"}, apperr.ErrValidation},
		{"unknown product", model.SaleInput{ProductID: "nope", Quantity: 1, UnitPrice: "1"}, apperr.ErrNotFound},
		{"over stock", model.SaleInput{ProductID: coffee.ID, Quantity: 4, UnitPrice: "1"}, apperr.ErrStockInsufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordSale(f.ctx, f.storeID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, f.backend.Calls(memory.OpRecordSale))
}

func TestSales_StockInsufficientReportsAvailable(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "3")

	_, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 5, UnitPrice: "2.50"})
	require.ErrorIs(t, err, apperr.ErrStockInsufficient)
	assert.Contains(t, err.Error(), "available: 3")
}

func TestSales_UntrackedStockIsNotChecked(t *testing.T) {
	f := newFixture(t).withStore(t)
	wrap := f.addProduct(t, "Gift wrap", "0.50", "")

	_, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: wrap.ID, Quantity: 500, UnitPrice: "0.50"})
	require.NoError(t, err)
	assert.Zero(t, f.backend.Calls(memory.OpUpdateProduct))
}

func TestSales_StockUpdateFailureKeepsSale(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "10")
	f.backend.FailOn(memory.OpUpdateProduct, errors.New("write conflict"))

	sale, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 2, UnitPrice: "2.50"})
	require.NoError(t, err)
	assert.NotEmpty(t, sale.ID)

	sales, err := f.svc.ListSales(f.ctx, f.storeID, 0)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestSales_ProductLookupFailure(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "10")
	f.backend.FailOn(memory.OpGetProduct, errors.New("timeout"))

	_, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 1, UnitPrice: "2.50"})
	assert.ErrorIs(t, err, apperr.ErrBackend)
}

func TestSales_ListNewestFirstWithAndWithoutOrdering(t *testing.T) {
	for _, ordered := range []bool{true, false} {
		clock := clockwork.NewFakeClock()
		opts := []memory.Option{memory.WithClock(clock)}
		if !ordered {
			opts = append(opts, memory.WithoutOrderedQueries())
		}
		f := newFixture(t, opts...).withStore(t)
		coffee := f.addProduct(t, "Coffee", "1", "")

		for i := 1; i <= 5; i++ {
			_, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: i, UnitPrice: "1"})
			require.NoError(t, err)
			clock.Advance(time.Minute)
		}

		sales, err := f.svc.ListSales(f.ctx, f.storeID, 2)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.True(t, sales[0].Timestamp.After(sales[1].Timestamp), "ordered=%v", ordered)
	}
}

func TestSales_ListBetweenAndDelete(t *testing.T) {
	clock := clockwork.NewFakeClock()
	f := newFixture(t, memory.WithClock(clock)).withStore(t)
	coffee := f.addProduct(t, "Coffee", "1", "")

	start := clock.Now()
	first, err := f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 1, UnitPrice: "1"})
	require.NoError(t, err)
	clock.Advance(48 * time.Hour)
	_, err = f.svc.RecordSale(f.ctx, f.storeID, model.SaleInput{ProductID: coffee.ID, Quantity: 1, UnitPrice: "1"})
	require.NoError(t, err)

	sales, err := f.svc.ListSalesBetween(f.ctx, f.storeID, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, first.ID, sales[0].ID)

	_, err = f.svc.ListSalesBetween(f.ctx, f.storeID, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, f.svc.DeleteSale(f.ctx, f.storeID, first.ID))
	assert.ErrorIs(t, f.svc.DeleteSale(f.ctx, f.storeID, first.ID), apperr.ErrNotFound)
}

func TestListNewestFirst_FallbackSortsAndTruncates(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stored := []model.Sale{
		{Quantity: 1, Timestamp: base},
		{Quantity: 2}, // missing timestamp sorts last
		{Quantity: 3, Timestamp: base.Add(2 * time.Hour)},
		{Quantity: 4, Timestamp: base.Add(time.Hour)},
	}

	var queries []backend.ListQuery
	fetch := func(q backend.ListQuery) ([]model.Sale, error) {
		queries = append(queries, q)
		if q.Descending {
			return nil, backend.ErrOrderingUnavailable
		}
		return append([]model.Sale(nil), stored...), nil
	}

	got, err := listNewestFirst(zap.NewNop(), "sales", 3, fetch)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 4, 1}, []int{got[0].Quantity, got[1].Quantity, got[2].Quantity})

	require.Len(t, queries, 2)
	assert.True(t, queries[0].Descending)
	assert.Equal(t, 3, queries[0].Limit)
	assert.False(t, queries[1].Descending)
	assert.Equal(t, 6, queries[1].Limit)
}

func TestListNewestFirst_OtherErrorsAreBackendErrors(t *testing.T) {
	_, err := listNewestFirst(zap.NewNop(), "sales", 3, func(backend.ListQuery) ([]model.Sale, error) {
		return nil, errors.New("quota exceeded")
	})
	assert.ErrorIs(t, err, apperr.ErrBackend)
	assert.Contains(t, err.Error(), "quota exceeded")
}
