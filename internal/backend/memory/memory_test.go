package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

func newTestBackend(opts ...Option) *Backend {
	return New(append([]Option{WithPasswordCost(bcrypt.MinCost)}, opts...)...)
}

func TestBackend_Accounts(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend()

	id, err := b.CreateAccount(ctx, "owner@shop.com", "Secret123!")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = b.CreateAccount(ctx, "OWNER@shop.com", "Other123!")
	assert.ErrorIs(t, err, backend.ErrDuplicateEmail)

	got, err := b.VerifyCredentials(ctx, "owner@shop.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = b.VerifyCredentials(ctx, "owner@shop.com", "wrong")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)

	_, err = b.VerifyCredentials(ctx, "ghost@shop.com", "Secret123!")
	assert.ErrorIs(t, err, backend.ErrInvalidCredentials)
}

func TestBackend_CreateStoreAppendsOwnedStores(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend()

	owner, err := b.CreateAccount(ctx, "owner@shop.com", "Secret123!")
	require.NoError(t, err)

	first, err := b.CreateStore(ctx, &model.Store{Name: "First", Address: "Main 1", OwnerID: owner})
	require.NoError(t, err)
	second, err := b.CreateStore(ctx, &model.Store{Name: "Second", Address: "Main 2", OwnerID: owner})
	require.NoError(t, err)

	profile, err := b.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, []string(profile.OwnedStoreIDs))

	// saving a profile without the list keeps the owned stores
	profile.OwnedStoreIDs = nil
	profile.Name = "Renamed"
	require.NoError(t, b.SaveProfile(ctx, profile))

	profile, err = b.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Name)
	assert.Len(t, profile.OwnedStoreIDs, 2)

	stores, err := b.GetStoresForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "First", stores[0].Name)

	isOwner, err := b.VerifyOwner(ctx, owner, first)
	require.NoError(t, err)
	assert.True(t, isOwner)

	_, err = b.VerifyOwner(ctx, owner, "missing")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestBackend_OrderedListing(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	b := newTestBackend(WithClock(clock))

	for i := 0; i < 3; i++ {
		_, err := b.RecordSale(ctx, &model.Sale{StoreID: "s1", ProductID: "p", Quantity: 1})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	sales, err := b.ListSales(ctx, "s1", backend.ListQuery{Limit: 2, Descending: true})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.True(t, sales[0].Timestamp.After(sales[1].Timestamp))

	unordered := newTestBackend(WithoutOrderedQueries())
	_, err = unordered.ListSales(ctx, "s1", backend.ListQuery{Limit: 2, Descending: true})
	assert.ErrorIs(t, err, backend.ErrOrderingUnavailable)
	_, err = unordered.ListMetrics(ctx, "s1", backend.ListQuery{Limit: 2, Descending: true})
	assert.ErrorIs(t, err, backend.ErrOrderingUnavailable)
}

func TestBackend_FailureInjection(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend()
	boom := errors.New("boom")

	b.FailOn(OpListProducts, boom)
	_, err := b.ListProducts(ctx, "s1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, b.Calls(OpListProducts))

	b.FailOn(OpListProducts, nil)
	_, err = b.ListProducts(ctx, "s1")
	assert.NoError(t, err)

	b.PanicOn(OpGetStore, "kaput")
	assert.Panics(t, func() { _, _ = b.GetStore(ctx, "s1") })

	// the lock is released after a panic
	_, err = b.ListStaff(ctx, "s1")
	assert.NoError(t, err)
}
