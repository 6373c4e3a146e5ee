package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-retail-ws/internal/backend/memory"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/session"
)

const testPassword = "Secret123!"

type fixture struct {
	ctx      context.Context
	backend  *memory.Backend
	sessions *session.Manager
	auth     AuthService
	svc      *StoreService
	owner    *AuthResult
	storeID  string
}

func newFixture(t *testing.T, opts ...memory.Option) *fixture {
	t.Helper()

	f := &fixture{
		ctx:      context.Background(),
		backend:  memory.New(append([]memory.Option{memory.WithPasswordCost(bcrypt.MinCost)}, opts...)...),
		sessions: session.NewManager(),
	}
	f.auth = NewAuthService(f.backend, f.sessions, zap.NewNop())
	f.svc = f.newService()
	return f
}

func (f *fixture) newService() *StoreService {
	return NewStoreService(f.backend, nil, zap.NewNop())
}

// withStore registers an owner, logs them in on the service and selects a new store
func (f *fixture) withStore(t *testing.T) *fixture {
	t.Helper()

	owner, err := f.auth.Register(f.ctx, RegisterRequest{Email: "owner@shop.com", Name: "Olivia Owner", Password: testPassword})
	require.NoError(t, err)
	f.owner = owner
	f.svc.SetCurrentUser(owner)

	store, err := f.svc.CreateStore(f.ctx, model.StoreInput{Name: "Corner Shop", Address: "Main St 1"}, "")
	require.NoError(t, err)
	f.storeID = store.ID
	f.svc.SetCurrentStore(store)
	return f
}

func (f *fixture) addProduct(t *testing.T, name, price, stock string) *model.Product {
	t.Helper()

	p, err := f.svc.CreateProduct(f.ctx, f.storeID, model.ProductInput{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }
