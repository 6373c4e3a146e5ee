package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
	"go-retail-ws/pkg/validator"
)

// StoreService is the stateful facade used by the console and by each HTTP
// session. It carries the current user and store and checks every
// store-scoped call against them before reaching the backend.
type StoreService struct {
	backend  backend.Backend
	resolver PermissionResolver
	log      *zap.Logger

	mu           sync.RWMutex
	currentUser  string
	currentStore string
	userData     *model.Profile

	subs    subscribers
	sales   *SalesLogic
	metrics *MetricsLogic
}

func NewStoreService(b backend.Backend, resolver PermissionResolver, log *zap.Logger) *StoreService {
	if resolver == nil {
		resolver = NewPermissionResolver(b, log)
	}
	s := &StoreService{
		backend:  b,
		resolver: resolver,
		log:      log,
	}
	s.sales = &SalesLogic{svc: s}
	s.metrics = &MetricsLogic{svc: s}
	return s
}

// Sales exposes the sales operations
func (s *StoreService) Sales() *SalesLogic { return s.sales }

// Metrics exposes the metrics operations
func (s *StoreService) Metrics() *MetricsLogic { return s.metrics }

// SetCurrentUser accepts a user id or any value carrying one (profile, auth
// result, session data, map with "user_id"/"id"). nil clears the user and
// the cached profile.
func (s *StoreService) SetCurrentUser(v any) {
	id, profile := userFrom(v)

	s.mu.Lock()
	changed := s.currentUser != id
	s.currentUser = id
	switch {
	case id == "":
		s.userData = nil
	case profile != nil:
		p := *profile
		s.userData = &p
	case s.userData != nil && s.userData.ID != id:
		s.userData = nil
	}
	s.mu.Unlock()

	if changed {
		s.subs.publish(s.log, Event{Type: EventUserChanged, Value: id})
	}
}

// SetCurrentStore accepts a store id, a store or a map with "store_id"/"id".
// nil clears the store.
func (s *StoreService) SetCurrentStore(v any) {
	id := storeFrom(v)

	s.mu.Lock()
	changed := s.currentStore != id
	s.currentStore = id
	s.mu.Unlock()

	if changed {
		s.subs.publish(s.log, Event{Type: EventStoreChanged, Value: id})
	}
}

func (s *StoreService) CurrentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

func (s *StoreService) CurrentStore() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStore
}

// UserData returns a copy of the cached profile, or nil
func (s *StoreService) UserData() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userData == nil {
		return nil
	}
	p := *s.userData
	return &p
}

func (s *StoreService) Subscribe(fn Listener) SubscriptionID {
	return s.subs.add(fn)
}

func (s *StoreService) Unsubscribe(id SubscriptionID) bool {
	return s.subs.remove(id)
}

func (s *StoreService) HasPermission(ctx context.Context, userID, storeID string, action model.Action) bool {
	return s.resolver.HasPermission(ctx, userID, storeID, action)
}

// requireUser is the authentication guard
func (s *StoreService) requireUser() (string, error) {
	user := s.CurrentUser()
	if user == "" {
		return "", apperr.Auth("no authenticated user")
	}
	return user, nil
}

// requireStore is the store-scope guard: storeID must be the selected store
func (s *StoreService) requireStore(storeID string) error {
	current := s.CurrentStore()
	if current == "" {
		return apperr.Auth("no store selected")
	}
	if storeID != current {
		return apperr.Auth("store %s is not the selected store", storeID)
	}
	return nil
}

// requireMutation runs the authentication and store-scope guards
func (s *StoreService) requireMutation(storeID string) (string, error) {
	user, err := s.requireUser()
	if err != nil {
		return "", err
	}
	if err := s.requireStore(storeID); err != nil {
		return "", err
	}
	return user, nil
}

func (s *StoreService) requireOwner(ctx context.Context, userID, storeID string) error {
	if !s.resolver.IsOwner(ctx, userID, storeID) {
		return apperr.PermissionDenied("only the store owner can manage staff")
	}
	return nil
}

func (s *StoreService) requirePermission(ctx context.Context, userID, storeID string, action model.Action) error {
	if !s.resolver.HasPermission(ctx, userID, storeID, action) {
		return apperr.PermissionDenied("missing permission %s", action)
	}
	return nil
}

func validationError(data interface{}) error {
	if err := validator.FirstError(data); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

func (s *StoreService) CreateStore(ctx context.Context, in model.StoreInput, ownerID string) (store *model.Store, err error) {
	defer recoverBackend(s.log, "CreateStore", &err)

	// 1. Resolve the owner
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		ownerID = user
	}
	if ownerID != user {
		return nil, apperr.PermissionDenied("stores can only be created for the current user")
	}

	// 2. Validate
	if err := validationError(&in); err != nil {
		return nil, err
	}

	// 3. Persist; the backend appends the id to the owner's profile
	store = &model.Store{
		Name:     security.Clean(in.Name),
		Address:  security.Clean(in.Address),
		Phone:    strings.TrimSpace(in.Phone),
		OwnerID:  ownerID,
		IsActive: true,
	}
	store.CreatedBy = user
	store.UpdatedBy = user
	id, err := s.backend.CreateStore(ctx, store)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	store.ID = id

	// 4. Keep the cached profile in step
	s.mu.Lock()
	if s.userData != nil && s.userData.ID == ownerID {
		s.userData.AddOwnedStore(id)
	}
	s.mu.Unlock()

	s.log.Info("store created", zap.String("store_id", id), zap.String("owner_id", ownerID))
	return store, nil
}

func (s *StoreService) GetUserStores(ctx context.Context, userID string) (stores []model.Store, err error) {
	defer recoverBackend(s.log, "GetUserStores", &err)

	if userID == "" {
		if userID, err = s.requireUser(); err != nil {
			return nil, err
		}
	}
	stores, err = s.backend.GetStoresForUser(ctx, userID)
	if err != nil {
		return nil, fromBackend(err, "user")
	}
	return stores, nil
}

func (s *StoreService) AddStaff(ctx context.Context, storeID string, in model.StaffInput) (member *model.StaffMember, err error) {
	defer recoverBackend(s.log, "AddStaff", &err)

	// 1. Guards
	user, err := s.requireMutation(storeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, user, storeID); err != nil {
		return nil, err
	}

	// 2. Validate
	if err := validationError(&in); err != nil {
		return nil, err
	}

	// 3. Persist
	member = &model.StaffMember{
		StoreID: storeID,
		Name:    security.Clean(in.Name),
		Role:    strings.TrimSpace(in.Role),
		UserID:  strings.TrimSpace(in.UserID),
		PIN:     strings.TrimSpace(in.PIN),
	}
	member.CreatedBy = user
	member.UpdatedBy = user
	id, err := s.backend.AddStaff(ctx, storeID, member)
	if err != nil {
		return nil, fromBackend(err, "store")
	}
	member.ID = id
	return member, nil
}

func (s *StoreService) UpdateStaff(ctx context.Context, storeID, staffID string, upd model.StaffUpdate) (err error) {
	defer recoverBackend(s.log, "UpdateStaff", &err)

	user, err := s.requireMutation(storeID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, user, storeID); err != nil {
		return err
	}
	if upd.IsEmpty() {
		return apperr.Validation("nothing to update")
	}
	if err := validationError(&upd); err != nil {
		return err
	}
	if upd.Name != nil {
		name := security.Clean(*upd.Name)
		upd.Name = &name
	}

	if err := s.backend.UpdateStaff(ctx, storeID, staffID, upd); err != nil {
		return fromBackend(err, "staff member")
	}
	return nil
}

func (s *StoreService) RemoveStaff(ctx context.Context, storeID, staffID string) (err error) {
	defer recoverBackend(s.log, "RemoveStaff", &err)

	user, err := s.requireMutation(storeID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, user, storeID); err != nil {
		return err
	}
	if err := s.backend.DeleteStaff(ctx, storeID, staffID); err != nil {
		return fromBackend(err, "staff member")
	}
	return nil
}

func (s *StoreService) ListStaff(ctx context.Context, storeID string) (staff []model.StaffMember, err error) {
	defer recoverBackend(s.log, "ListStaff", &err)

	if _, err := s.requireUser(); err != nil {
		return nil, err
	}
	staff, err = s.backend.ListStaff(ctx, storeID)
	if err != nil {
		return nil, fromBackend(err, "store")
	}
	return staff, nil
}

func userFrom(v any) (string, *model.Profile) {
	switch u := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(u), nil
	case *model.Profile:
		if u == nil {
			return "", nil
		}
		return u.ID, u
	case model.Profile:
		return u.ID, &u
	case *AuthResult:
		if u == nil {
			return "", nil
		}
		return u.UserID, profileOf(u.UserID, u.Profile)
	case AuthResult:
		return u.UserID, profileOf(u.UserID, u.Profile)
	case *SessionData:
		if u == nil {
			return "", nil
		}
		return u.UserID, profileOf(u.UserID, u.Profile)
	case SessionData:
		return u.UserID, profileOf(u.UserID, u.Profile)
	case map[string]any:
		return idFromMap(u, "user_id"), nil
	}
	return "", nil
}

func profileOf(userID string, p model.Profile) *model.Profile {
	if p.ID == "" {
		p.ID = userID
	}
	return &p
}

func storeFrom(v any) string {
	switch st := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(st)
	case *model.Store:
		if st == nil {
			return ""
		}
		return st.ID
	case model.Store:
		return st.ID
	case map[string]any:
		return idFromMap(st, "store_id")
	}
	return ""
}

func idFromMap(m map[string]any, key string) string {
	for _, k := range []string{key, "id"} {
		if id, ok := m[k].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
