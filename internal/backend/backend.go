// Package backend defines the persistence collaborator consumed by the
// service layer: account credentials plus document CRUD for stores,
// staff, products, sales and metrics.
package backend

import (
	"context"
	"errors"
	"time"

	"go-retail-ws/internal/model"
)

var (
	ErrNotFound            = errors.New("document not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrOrderingUnavailable = errors.New("ordered query requires an index that is not available")
)

// ListQuery controls listing of time-stamped documents
type ListQuery struct {
	Limit      int
	Descending bool   // newest first by timestamp; may yield ErrOrderingUnavailable
	MetricType string // metrics only, empty means all types
}

type Accounts interface {
	CreateAccount(ctx context.Context, email, password string) (userID string, err error)
	VerifyCredentials(ctx context.Context, email, password string) (userID string, err error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, profile *model.Profile) error
}

type Stores interface {
	// CreateStore persists the store and appends its id to the owner's profile
	CreateStore(ctx context.Context, store *model.Store) (storeID string, err error)
	GetStore(ctx context.Context, storeID string) (*model.Store, error)
	GetStoresForUser(ctx context.Context, userID string) ([]model.Store, error)
	VerifyOwner(ctx context.Context, userID, storeID string) (bool, error)
}

type StaffDirectory interface {
	AddStaff(ctx context.Context, storeID string, staff *model.StaffMember) (staffID string, err error)
	ListStaff(ctx context.Context, storeID string) ([]model.StaffMember, error)
	UpdateStaff(ctx context.Context, storeID, staffID string, update model.StaffUpdate) error
	DeleteStaff(ctx context.Context, storeID, staffID string) error
}

type Products interface {
	CreateProduct(ctx context.Context, storeID string, product *model.Product) (productID string, err error)
	GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error)
	ListProducts(ctx context.Context, storeID string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, storeID, productID string, update model.ProductUpdate) error
	DeleteProduct(ctx context.Context, storeID, productID string) error
}

type Sales interface {
	RecordSale(ctx context.Context, sale *model.Sale) (saleID string, err error)
	ListSales(ctx context.Context, storeID string, q ListQuery) ([]model.Sale, error)
	ListSalesBetween(ctx context.Context, storeID string, start, end time.Time) ([]model.Sale, error)
	DeleteSale(ctx context.Context, storeID, saleID string) error
}

type Metrics interface {
	RecordMetric(ctx context.Context, metric *model.Metric) (metricID string, err error)
	ListMetrics(ctx context.Context, storeID string, q ListQuery) ([]model.Metric, error)
	DeleteMetric(ctx context.Context, storeID, metricID string) error
}

// Backend is the full collaborator contract
type Backend interface {
	Accounts
	Stores
	StaffDirectory
	Products
	Sales
	Metrics
}
