package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend/memory"
	"go-retail-ws/internal/model"
)

func TestStoreService_SetCurrentUserShapes(t *testing.T) {
	profile := model.Profile{Name: "Olivia"}
	profile.ID = "u-profile"

	tests := []struct {
		name     string
		in       any
		wantID   string
		wantData bool
	}{
		{"plain id", "u-1", "u-1", false},
		{"profile value", profile, "u-profile", true},
		{"profile pointer", &profile, "u-profile", true},
		{"auth result", &AuthResult{UserID: "u-auth", Profile: profile}, "u-auth", true},
		{"session data", SessionData{UserID: "u-sess"}, "u-sess", true},
		{"map user_id", map[string]any{"user_id": "u-map"}, "u-map", false},
		{"map id", map[string]any{"id": "u-map2"}, "u-map2", false},
		{"nil", nil, "", false},
		{"unknown shape", 42, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.SetCurrentUser(tt.in)
			assert.Equal(t, tt.wantID, f.svc.CurrentUser())
			assert.Equal(t, tt.wantData, f.svc.UserData() != nil)
		})
	}
}

func TestStoreService_ClearingUserResetsProfile(t *testing.T) {
	f := newFixture(t).withStore(t)
	require.NotNil(t, f.svc.UserData())
	assert.Equal(t, []string{f.storeID}, []string(f.svc.UserData().OwnedStoreIDs))

	f.svc.SetCurrentUser(nil)
	assert.Empty(t, f.svc.CurrentUser())
	assert.Nil(t, f.svc.UserData())
}

func TestStoreService_SubscribersAreNotified(t *testing.T) {
	f := newFixture(t)

	var got []Event
	first := f.svc.Subscribe(func(ev Event) { got = append(got, ev) })
	f.svc.Subscribe(func(Event) { panic("listener bug") })
	var afterPanic int
	f.svc.Subscribe(func(Event) { afterPanic++ })

	f.svc.SetCurrentUser("u-1")
	f.svc.SetCurrentStore(map[string]any{"store_id": "s-1"})
	f.svc.SetCurrentStore("s-1") // unchanged, no event

	assert.Equal(t, []Event{
		{Type: EventUserChanged, Value: "u-1"},
		{Type: EventStoreChanged, Value: "s-1"},
	}, got)
	assert.Equal(t, 2, afterPanic)

	assert.True(t, f.svc.Unsubscribe(first))
	assert.False(t, f.svc.Unsubscribe(first))
	f.svc.SetCurrentStore(nil)
	assert.Len(t, got, 2)
	assert.Equal(t, 3, afterPanic)
}

func TestStoreService_StoreScopeGuard(t *testing.T) {
	f := newFixture(t).withStore(t)
	product := f.addProduct(t, "Coffee", "2.50", "10")
	before := f.backend.TotalCalls()

	other := "some-other-store"
	calls := map[string]func() error{
		"CreateProduct": func() error {
			_, err := f.svc.CreateProduct(f.ctx, other, model.ProductInput{Name: "Tea", Price: "1"})
			return err
		},
		"UpdateProduct": func() error {
			return f.svc.UpdateProduct(f.ctx, other, product.ID, model.ProductPatch{Name: strPtr("Tea")})
		},
		"DeleteProduct": func() error { return f.svc.DeleteProduct(f.ctx, other, product.ID) },
		"ListProducts": func() error {
			_, err := f.svc.ListProducts(f.ctx, other)
			return err
		},
		"AddStaff": func() error {
			_, err := f.svc.AddStaff(f.ctx, other, model.StaffInput{Name: "Sam", Role: "seller"})
			return err
		},
		"UpdateStaff": func() error {
			return f.svc.UpdateStaff(f.ctx, other, "x", model.StaffUpdate{Name: strPtr("Sam")})
		},
		"RemoveStaff": func() error { return f.svc.RemoveStaff(f.ctx, other, "x") },
		"RecordSale": func() error {
			_, err := f.svc.RecordSale(f.ctx, other, model.SaleInput{ProductID: product.ID, Quantity: 1, UnitPrice: "2.50"})
			return err
		},
		"ListSales": func() error {
			_, err := f.svc.ListSales(f.ctx, other, 0)
			return err
		},
		"DeleteSale": func() error { return f.svc.DeleteSale(f.ctx, other, "x") },
		"RecordMetric": func() error {
			_, err := f.svc.RecordMetric(f.ctx, other, model.MetricInput{MetricType: "visits", Value: "3"})
			return err
		},
		"ListMetrics": func() error {
			_, err := f.svc.ListMetrics(f.ctx, other, "", 0)
			return err
		},
		"DeleteMetric": func() error { return f.svc.DeleteMetric(f.ctx, other, "x") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, apperr.ErrAuth)
		})
	}
	assert.Equal(t, before, f.backend.TotalCalls(), "no backend call may happen for a foreign store")
}

func TestStoreService_RequiresSelectedStore(t *testing.T) {
	f := newFixture(t).withStore(t)
	f.svc.SetCurrentStore(nil)

	_, err := f.svc.ListProducts(f.ctx, f.storeID)
	assert.ErrorIs(t, err, apperr.ErrAuth)
	assert.EqualError(t, err, "no store selected")
	_, err = f.svc.ListSales(f.ctx, f.storeID, 0)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestStoreService_AuthenticationGuard(t *testing.T) {
	f := newFixture(t).withStore(t)
	f.svc.SetCurrentUser(nil)
	before := f.backend.TotalCalls()

	_, err := f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "Tea", Price: "1"})
	assert.ErrorIs(t, err, apperr.ErrAuth)
	_, err = f.svc.RecordMetric(f.ctx, f.storeID, model.MetricInput{MetricType: "visits", Value: "1"})
	assert.ErrorIs(t, err, apperr.ErrAuth)
	_, err = f.svc.CreateStore(f.ctx, model.StoreInput{Name: "Second", Address: "Main 2"}, "")
	assert.ErrorIs(t, err, apperr.ErrAuth)
	_, err = f.svc.ListStaff(f.ctx, f.storeID)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	assert.Equal(t, before, f.backend.TotalCalls())
}

func TestStoreService_CreateStore(t *testing.T) {
	f := newFixture(t).withStore(t)

	_, err := f.svc.CreateStore(f.ctx, model.StoreInput{Name: "X", Address: "Main 2"}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.CreateStore(f.ctx, model.StoreInput{Name: "Other", Address: "Main 2"}, "someone-else")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	second, err := f.svc.CreateStore(f.ctx, model.StoreInput{Name: "<b>Kiosk</b>", Address: "Main 2"}, "")
	require.NoError(t, err)
	assert.Equal(t, "bKiosk/b", second.Name)

	stores, err := f.svc.GetUserStores(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, f.storeID, stores[0].ID)
	assert.Equal(t, second.ID, stores[1].ID)
	assert.Equal(t, []string{f.storeID, second.ID}, []string(f.svc.UserData().OwnedStoreIDs))
}

func TestStoreService_StaffManagement(t *testing.T) {
	f := newFixture(t).withStore(t)

	_, err := f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: " ", Role: "seller"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	member, err := f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: "Sam", Role: "seller", UserID: "u-sam"})
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)

	err = f.svc.UpdateStaff(f.ctx, f.storeID, member.ID, model.StaffUpdate{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, f.svc.UpdateStaff(f.ctx, f.storeID, member.ID, model.StaffUpdate{Role: strPtr("manager")}))
	err = f.svc.UpdateStaff(f.ctx, f.storeID, "missing", model.StaffUpdate{Role: strPtr("manager")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	staff, err := f.svc.ListStaff(f.ctx, f.storeID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "manager", staff[0].Role)

	// a non-owner cannot manage staff, even as a manager
	f.svc.SetCurrentUser("u-sam")
	_, err = f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: "Ann", Role: "viewer"})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	f.svc.SetCurrentUser(f.owner)
	require.NoError(t, f.svc.RemoveStaff(f.ctx, f.storeID, member.ID))
	err = f.svc.RemoveStaff(f.ctx, f.storeID, member.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoreService_Products(t *testing.T) {
	f := newFixture(t).withStore(t)

	_, err := f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "Tea", Price: "abc"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "Tea", Price: "1", Stock: "-3"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	untracked := f.addProduct(t, "Gift wrap", "0.5", "")
	assert.Nil(t, untracked.Stock)
	assert.Equal(t, int64(50), untracked.Price)

	coffee := f.addProduct(t, "Coffee", "2.50", "10")
	require.NotNil(t, coffee.Stock)
	assert.Equal(t, 10, *coffee.Stock)

	err = f.svc.UpdateProduct(f.ctx, f.storeID, coffee.ID, model.ProductPatch{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, f.svc.UpdateProduct(f.ctx, f.storeID, coffee.ID, model.ProductPatch{Price: strPtr("3"), Stock: strPtr("12")}))
	err = f.svc.UpdateProduct(f.ctx, f.storeID, "missing", model.ProductPatch{Price: strPtr("3")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	products, err := f.svc.ListProducts(f.ctx, f.storeID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(300), products[1].Price)
	assert.Equal(t, 12, *products[1].Stock)

	require.NoError(t, f.svc.DeleteProduct(f.ctx, f.storeID, untracked.ID))
	products, err = f.svc.ListProducts(f.ctx, f.storeID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestStoreService_NamesAreMeasuredAfterSanitizing(t *testing.T) {
	f := newFixture(t).withStore(t)
	writes := func() int {
		return f.backend.Calls(memory.OpCreateProduct) + f.backend.Calls(memory.OpCreateStore) + f.backend.Calls(memory.OpAddStaff)
	}
	before := writes()

	_, err := f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "<<a>", Price: "1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "Tea", Price: "1.-5"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.CreateStore(f.ctx, model.StoreInput{Name: " <a> ", Address: "Main 2"}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.CreateStore(f.ctx, model.StoreInput{Name: "Kiosk", Address: "<;>"}, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: "<>", Role: "seller"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, before, writes(), "nothing may be written")

	coffee := f.addProduct(t, "Coffee", "2.50", "")
	err = f.svc.UpdateProduct(f.ctx, f.storeID, coffee.ID, model.ProductPatch{Name: strPtr("'a'")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	tea, err := f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: " <Te>a ", Price: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Tea", tea.Name)
}

func TestStoreService_ProductPermissionsByRole(t *testing.T) {
	f := newFixture(t).withStore(t)
	coffee := f.addProduct(t, "Coffee", "2.50", "10")

	_, err := f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: "Sam", Role: "Seller", UserID: "u-seller"})
	require.NoError(t, err)
	_, err = f.svc.AddStaff(f.ctx, f.storeID, model.StaffInput{Name: "Vic", Role: "viewer", UserID: "u-viewer"})
	require.NoError(t, err)

	seller := f.newService()
	seller.SetCurrentUser("u-seller")
	seller.SetCurrentStore(f.storeID)

	_, err = seller.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: "Tea", Price: "1"})
	assert.NoError(t, err)
	err = seller.DeleteProduct(f.ctx, f.storeID, coffee.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	viewer := f.newService()
	viewer.SetCurrentUser("u-viewer")
	viewer.SetCurrentStore(f.storeID)

	_, err = viewer.ListProducts(f.ctx, f.storeID)
	assert.NoError(t, err)
	err = viewer.UpdateProduct(f.ctx, f.storeID, coffee.ID, model.ProductPatch{Price: strPtr("1")})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	stranger := f.newService()
	stranger.SetCurrentUser("u-stranger")
	stranger.SetCurrentStore(f.storeID)
	_, err = stranger.ListProducts(f.ctx, f.storeID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestStoreService_BackendPanicBecomesBackendError(t *testing.T) {
	f := newFixture(t).withStore(t)
	f.backend.PanicOn(memory.OpListStaff, errors.New("connection reset"))

	_, err := f.svc.ListStaff(f.ctx, f.storeID)
	assert.ErrorIs(t, err, apperr.ErrBackend)
}
