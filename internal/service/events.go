package service

import (
	"sync"

	"go.uber.org/zap"
)

type EventType string

const (
	EventUserChanged  EventType = "user_changed"
	EventStoreChanged EventType = "store_changed"
)

// Event is delivered to subscribers after the current user or store changes.
// Value is the new id, empty when cleared.
type Event struct {
	Type  EventType `json:"type"`
	Value string    `json:"value"`
}

type Listener func(Event)

type SubscriptionID uint64

type subscribers struct {
	mu        sync.Mutex
	next      SubscriptionID
	order     []SubscriptionID
	listeners map[SubscriptionID]Listener
}

func (s *subscribers) add(fn Listener) SubscriptionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[SubscriptionID]Listener)
	}
	s.next++
	s.listeners[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

func (s *subscribers) remove(id SubscriptionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listeners[id]; !ok {
		return false
	}
	delete(s.listeners, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *subscribers) snapshot() []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.listeners[id])
	}
	return out
}

// publish calls every listener in subscription order on the caller's goroutine
func (s *subscribers) publish(log *zap.Logger, ev Event) {
	for _, fn := range s.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("subscriber panicked", zap.String("event", string(ev.Type)), zap.Any("panic", r))
				}
			}()
			fn(ev)
		}()
	}
}
