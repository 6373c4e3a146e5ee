// Package memory is an in-process document store implementing
// backend.Backend. It backs the console in demo mode and the test suites,
// and supports failure injection per operation.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

// Operation names accepted by FailOn, PanicOn and Calls
const (
	OpCreateAccount     = "CreateAccount"
	OpVerifyCredentials = "VerifyCredentials"
	OpGetProfile        = "GetProfile"
	OpSaveProfile       = "SaveProfile"
	OpCreateStore       = "CreateStore"
	OpGetStore          = "GetStore"
	OpGetStoresForUser  = "GetStoresForUser"
	OpVerifyOwner       = "VerifyOwner"
	OpAddStaff          = "AddStaff"
	OpListStaff         = "ListStaff"
	OpUpdateStaff       = "UpdateStaff"
	OpDeleteStaff       = "DeleteStaff"
	OpCreateProduct     = "CreateProduct"
	OpGetProduct        = "GetProduct"
	OpListProducts      = "ListProducts"
	OpUpdateProduct     = "UpdateProduct"
	OpDeleteProduct     = "DeleteProduct"
	OpRecordSale        = "RecordSale"
	OpListSales         = "ListSales"
	OpListSalesBetween  = "ListSalesBetween"
	OpDeleteSale        = "DeleteSale"
	OpRecordMetric      = "RecordMetric"
	OpListMetrics       = "ListMetrics"
	OpDeleteMetric      = "DeleteMetric"
)

type Backend struct {
	mu    sync.Mutex
	clock clockwork.Clock
	cost  int

	accounts map[string]*model.Account // by lower-cased email
	profiles map[string]*model.Profile
	stores   map[string]*model.Store
	staff    map[string][]*model.StaffMember // by store, insertion order
	products map[string][]*model.Product     // by store, insertion order
	sales    []*model.Sale
	metrics  []*model.Metric

	orderedQueries bool
	failures       map[string]error
	panics         map[string]any
	calls          map[string]int
}

// Option configures the memory backend
type Option func(*Backend)

// WithClock sets the time source used for timestamps
func WithClock(clock clockwork.Clock) Option {
	return func(b *Backend) { b.clock = clock }
}

// WithoutOrderedQueries makes descending listings fail with
// backend.ErrOrderingUnavailable, as a document store lacking an index does.
func WithoutOrderedQueries() Option {
	return func(b *Backend) { b.orderedQueries = false }
}

// WithPasswordCost overrides the bcrypt cost (tests use bcrypt.MinCost)
func WithPasswordCost(cost int) Option {
	return func(b *Backend) { b.cost = cost }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		clock:          clockwork.NewRealClock(),
		cost:           bcrypt.DefaultCost,
		accounts:       make(map[string]*model.Account),
		profiles:       make(map[string]*model.Profile),
		stores:         make(map[string]*model.Store),
		staff:          make(map[string][]*model.StaffMember),
		products:       make(map[string][]*model.Product),
		orderedQueries: true,
		failures:       make(map[string]error),
		panics:         make(map[string]any),
		calls:          make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ backend.Backend = (*Backend)(nil)

// FailOn makes every later call of op return err; a nil err clears it.
func (b *Backend) FailOn(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// PanicOn makes every later call of op panic with v.
func (b *Backend) PanicOn(op string, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panics[op] = v
}

// Calls returns how many times op was invoked
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls returns the number of invocations across all operations
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.calls {
		total += n
	}
	return total
}

// enter records the call and applies injected failures. Callers hold b.mu.
func (b *Backend) enter(op string) error {
	b.calls[op]++
	if v, ok := b.panics[op]; ok {
		panic(v)
	}
	return b.failures[op]
}

// ============ ACCOUNTS ============

func (b *Backend) CreateAccount(ctx context.Context, email, password string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpCreateAccount); err != nil {
		return "", err
	}

	key := strings.ToLower(email)
	if _, exists := b.accounts[key]; exists {
		return "", backend.ErrDuplicateEmail
	}

	account := &model.Account{Email: email, IsActive: true}
	if err := account.SetPasswordWithCost(password, b.cost); err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	account.EnsureID()
	account.CreatedAt = b.clock.Now()
	b.accounts[key] = account

	b.profiles[account.ID] = &model.Profile{
		BaseModel: model.BaseModel{ID: account.ID, CreatedAt: account.CreatedAt},
		Email:     email,
		Role:      model.RoleOwner,
		IsActive:  true,
	}
	return account.ID, nil
}

func (b *Backend) VerifyCredentials(ctx context.Context, email, password string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpVerifyCredentials); err != nil {
		return "", err
	}

	account, ok := b.accounts[strings.ToLower(email)]
	if !ok || !account.IsActive || !account.CheckPassword(password) {
		return "", backend.ErrInvalidCredentials
	}
	return account.ID, nil
}

func (b *Backend) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpGetProfile); err != nil {
		return nil, err
	}

	p, ok := b.profiles[userID]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (b *Backend) SaveProfile(ctx context.Context, profile *model.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpSaveProfile); err != nil {
		return err
	}
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	saved := cloneProfile(profile)
	if existing, ok := b.profiles[profile.ID]; ok {
		// owned stores are append-only from the caller's perspective
		for _, id := range existing.OwnedStoreIDs {
			saved.AddOwnedStore(id)
		}
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = existing.CreatedAt
		}
	}
	saved.UpdatedAt = b.clock.Now()
	b.profiles[profile.ID] = saved
	return nil
}

// ============ STORES ============

func (b *Backend) CreateStore(ctx context.Context, store *model.Store) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpCreateStore); err != nil {
		return "", err
	}

	s := *store
	s.EnsureID()
	s.CreatedAt = b.clock.Now()
	s.IsActive = true
	b.stores[s.ID] = &s

	owner, ok := b.profiles[s.OwnerID]
	if !ok {
		owner = &model.Profile{BaseModel: model.BaseModel{ID: s.OwnerID, CreatedAt: s.CreatedAt}}
		b.profiles[s.OwnerID] = owner
	}
	owner.AddOwnedStore(s.ID)

	*store = s
	return s.ID, nil
}

func (b *Backend) GetStore(ctx context.Context, storeID string) (*model.Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpGetStore); err != nil {
		return nil, err
	}

	s, ok := b.stores[storeID]
	if !ok {
		return nil, backend.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (b *Backend) GetStoresForUser(ctx context.Context, userID string) ([]model.Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpGetStoresForUser); err != nil {
		return nil, err
	}

	p, ok := b.profiles[userID]
	if !ok {
		return nil, backend.ErrNotFound
	}
	stores := make([]model.Store, 0, len(p.OwnedStoreIDs))
	for _, id := range p.OwnedStoreIDs {
		if s, ok := b.stores[id]; ok {
			stores = append(stores, *s)
		}
	}
	return stores, nil
}

func (b *Backend) VerifyOwner(ctx context.Context, userID, storeID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpVerifyOwner); err != nil {
		return false, err
	}

	s, ok := b.stores[storeID]
	if !ok {
		return false, backend.ErrNotFound
	}
	return s.OwnerID == userID, nil
}

// ============ STAFF ============

func (b *Backend) AddStaff(ctx context.Context, storeID string, staff *model.StaffMember) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpAddStaff); err != nil {
		return "", err
	}
	if _, ok := b.stores[storeID]; !ok {
		return "", backend.ErrNotFound
	}

	m := *staff
	m.EnsureID()
	m.StoreID = storeID
	m.CreatedAt = b.clock.Now()
	b.staff[storeID] = append(b.staff[storeID], &m)

	*staff = m
	return m.ID, nil
}

func (b *Backend) ListStaff(ctx context.Context, storeID string) ([]model.StaffMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpListStaff); err != nil {
		return nil, err
	}

	list := make([]model.StaffMember, 0, len(b.staff[storeID]))
	for _, m := range b.staff[storeID] {
		list = append(list, *m)
	}
	return list, nil
}

func (b *Backend) UpdateStaff(ctx context.Context, storeID, staffID string, update model.StaffUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpUpdateStaff); err != nil {
		return err
	}

	for _, m := range b.staff[storeID] {
		if m.ID != staffID {
			continue
		}
		if update.Name != nil {
			m.Name = *update.Name
		}
		if update.Role != nil {
			m.Role = *update.Role
		}
		if update.UserID != nil {
			m.UserID = *update.UserID
		}
		if update.PIN != nil {
			m.PIN = *update.PIN
		}
		m.UpdatedAt = b.clock.Now()
		return nil
	}
	return backend.ErrNotFound
}

func (b *Backend) DeleteStaff(ctx context.Context, storeID, staffID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpDeleteStaff); err != nil {
		return err
	}

	list := b.staff[storeID]
	for i, m := range list {
		if m.ID == staffID {
			b.staff[storeID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

// ============ PRODUCTS ============

func (b *Backend) CreateProduct(ctx context.Context, storeID string, product *model.Product) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpCreateProduct); err != nil {
		return "", err
	}
	if _, ok := b.stores[storeID]; !ok {
		return "", backend.ErrNotFound
	}

	p := cloneProduct(product)
	p.EnsureID()
	p.StoreID = storeID
	p.CreatedAt = b.clock.Now()
	b.products[storeID] = append(b.products[storeID], p)

	*product = *cloneProduct(p)
	return p.ID, nil
}

func (b *Backend) GetProduct(ctx context.Context, storeID, productID string) (*model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpGetProduct); err != nil {
		return nil, err
	}

	for _, p := range b.products[storeID] {
		if p.ID == productID {
			return cloneProduct(p), nil
		}
	}
	return nil, backend.ErrNotFound
}

func (b *Backend) ListProducts(ctx context.Context, storeID string) ([]model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpListProducts); err != nil {
		return nil, err
	}

	list := make([]model.Product, 0, len(b.products[storeID]))
	for _, p := range b.products[storeID] {
		list = append(list, *cloneProduct(p))
	}
	return list, nil
}

func (b *Backend) UpdateProduct(ctx context.Context, storeID, productID string, update model.ProductUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpUpdateProduct); err != nil {
		return err
	}

	for _, p := range b.products[storeID] {
		if p.ID != productID {
			continue
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Price != nil {
			p.Price = *update.Price
		}
		if update.Stock != nil {
			stock := *update.Stock
			p.Stock = &stock
		}
		p.UpdatedAt = b.clock.Now()
		return nil
	}
	return backend.ErrNotFound
}

func (b *Backend) DeleteProduct(ctx context.Context, storeID, productID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpDeleteProduct); err != nil {
		return err
	}

	list := b.products[storeID]
	for i, p := range list {
		if p.ID == productID {
			b.products[storeID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

// ============ SALES ============

func (b *Backend) RecordSale(ctx context.Context, sale *model.Sale) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpRecordSale); err != nil {
		return "", err
	}

	s := *sale
	s.EnsureID()
	now := b.clock.Now()
	s.CreatedAt = now
	if s.Timestamp.IsZero() {
		s.Timestamp = now
	}
	b.sales = append(b.sales, &s)

	*sale = s
	return s.ID, nil
}

func (b *Backend) ListSales(ctx context.Context, storeID string, q backend.ListQuery) ([]model.Sale, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpListSales); err != nil {
		return nil, err
	}
	if q.Descending && !b.orderedQueries {
		return nil, backend.ErrOrderingUnavailable
	}

	var list []model.Sale
	for _, s := range b.sales {
		if s.StoreID == storeID {
			list = append(list, *s)
		}
	}
	if q.Descending {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	}
	return truncate(list, q.Limit), nil
}

func (b *Backend) ListSalesBetween(ctx context.Context, storeID string, start, end time.Time) ([]model.Sale, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpListSalesBetween); err != nil {
		return nil, err
	}

	var list []model.Sale
	for _, s := range b.sales {
		if s.StoreID == storeID && !s.Timestamp.Before(start) && !s.Timestamp.After(end) {
			list = append(list, *s)
		}
	}
	return list, nil
}

func (b *Backend) DeleteSale(ctx context.Context, storeID, saleID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpDeleteSale); err != nil {
		return err
	}

	for i, s := range b.sales {
		if s.ID == saleID && s.StoreID == storeID {
			b.sales = append(b.sales[:i:i], b.sales[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

// ============ METRICS ============

func (b *Backend) RecordMetric(ctx context.Context, metric *model.Metric) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpRecordMetric); err != nil {
		return "", err
	}

	m := *metric
	m.EnsureID()
	now := b.clock.Now()
	m.CreatedAt = now
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	b.metrics = append(b.metrics, &m)

	*metric = m
	return m.ID, nil
}

func (b *Backend) ListMetrics(ctx context.Context, storeID string, q backend.ListQuery) ([]model.Metric, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpListMetrics); err != nil {
		return nil, err
	}
	if q.Descending && !b.orderedQueries {
		return nil, backend.ErrOrderingUnavailable
	}

	var list []model.Metric
	for _, m := range b.metrics {
		if m.StoreID != storeID {
			continue
		}
		if q.MetricType != "" && m.MetricType != q.MetricType {
			continue
		}
		list = append(list, *m)
	}
	if q.Descending {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	}
	return truncate(list, q.Limit), nil
}

func (b *Backend) DeleteMetric(ctx context.Context, storeID, metricID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.enter(OpDeleteMetric); err != nil {
		return err
	}

	for i, m := range b.metrics {
		if m.ID == metricID && m.StoreID == storeID {
			b.metrics = append(b.metrics[:i:i], b.metrics[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func truncate[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func cloneProfile(p *model.Profile) *model.Profile {
	out := *p
	out.OwnedStoreIDs = append([]string(nil), p.OwnedStoreIDs...)
	return &out
}

func cloneProduct(p *model.Product) *model.Product {
	out := *p
	if p.Stock != nil {
		stock := *p.Stock
		out.Stock = &stock
	}
	return &out
}
