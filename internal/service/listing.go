package service

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
)

const (
	DefaultSalesLimit   = 100
	DefaultMetricsLimit = 50
	DefaultTopProducts  = 5

	// unordered fallback reads this many times the requested limit
	fallbackOverfetch = 2
)

type timestamped interface {
	SortTime() time.Time
}

// listNewestFirst asks the backend for an ordered page and, when ordering is
// unavailable, over-fetches and sorts client-side. Zero timestamps sort last.
func listNewestFirst[T timestamped](log *zap.Logger, collection string, limit int, fetch func(q backend.ListQuery) ([]T, error)) ([]T, error) {
	items, err := fetch(backend.ListQuery{Limit: limit, Descending: true})
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, backend.ErrOrderingUnavailable) {
		return nil, apperr.Backend(err)
	}

	log.Warn("ordered query unavailable, sorting in memory", zap.String("collection", collection), zap.Int("limit", limit))
	items, err = fetch(backend.ListQuery{Limit: limit * fallbackOverfetch})
	if err != nil {
		return nil, apperr.Backend(err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortTime().After(items[j].SortTime())
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
