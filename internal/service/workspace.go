package service

import "sync"

// Workspaces keeps one StoreService per session token so that HTTP clients
// never share a current user or store.
type Workspaces struct {
	mu      sync.Mutex
	items   map[string]*StoreService
	factory func(token string) *StoreService
	onClose func(token string)
}

// NewWorkspaces builds workspaces with factory, which receives the session
// token so the caller can route the workspace's events to that session only.
func NewWorkspaces(factory func(token string) *StoreService) *Workspaces {
	return &Workspaces{
		items:   make(map[string]*StoreService),
		factory: factory,
	}
}

// Open returns the workspace for token, creating it with user as current user
func (w *Workspaces) Open(token string, user any) *StoreService {
	w.mu.Lock()
	svc, ok := w.items[token]
	if !ok {
		svc = w.factory(token)
		w.items[token] = svc
	}
	w.mu.Unlock()

	if !ok {
		svc.SetCurrentUser(user)
	}
	return svc
}

func (w *Workspaces) Get(token string) (*StoreService, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	svc, ok := w.items[token]
	return svc, ok
}

// OnClose registers fn to run after a workspace is closed
func (w *Workspaces) OnClose(fn func(token string)) {
	w.mu.Lock()
	w.onClose = fn
	w.mu.Unlock()
}

func (w *Workspaces) Close(token string) {
	w.mu.Lock()
	svc, ok := w.items[token]
	delete(w.items, token)
	onClose := w.onClose
	w.mu.Unlock()

	if !ok {
		return
	}
	svc.SetCurrentStore(nil)
	svc.SetCurrentUser(nil)
	if onClose != nil {
		onClose(token)
	}
}

// Prune closes every workspace whose token is no longer alive and returns
// how many were dropped.
func (w *Workspaces) Prune(alive func(token string) bool) int {
	w.mu.Lock()
	var dead []string
	for token := range w.items {
		if !alive(token) {
			dead = append(dead, token)
		}
	}
	w.mu.Unlock()

	for _, token := range dead {
		w.Close(token)
	}
	return len(dead)
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
