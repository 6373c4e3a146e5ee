package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go-retail-ws/internal/apperr"
	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
	"go-retail-ws/internal/security"
)

// MetricsLogic records store metrics and aggregates sales
type MetricsLogic struct {
	svc *StoreService
}

// SalesCount is the number of sales and the mean sale total in minor units
type SalesCount struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type ProductStats struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

func (l *MetricsLogic) Record(ctx context.Context, storeID string, in model.MetricInput) (metric *model.Metric, err error) {
	s := l.svc
	defer recoverBackend(s.log, "RecordMetric", &err)

	// 1. Guards
	user, err := s.requireMutation(storeID)
	if err != nil {
		return nil, err
	}

	// 2. Validate and parse the value
	in.MetricType = strings.TrimSpace(in.MetricType)
	in.Period = strings.ToLower(strings.TrimSpace(in.Period))
	if err := validationError(&in); err != nil {
		return nil, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64)
	if err != nil {
		return nil, apperr.Validation("value must be a valid number")
	}
	period := model.Period(in.Period)
	if period == "" {
		period = model.PeriodDaily
	}

	// 3. Persist
	metric = &model.Metric{
		StoreID:     storeID,
		MetricType:  in.MetricType,
		Value:       value,
		Description: security.Clean(in.Description),
		Period:      period,
	}
	metric.CreatedBy = user
	metric.UpdatedBy = user
	id, err := s.backend.RecordMetric(ctx, metric)
	if err != nil {
		return nil, apperr.Backend(err)
	}
	metric.ID = id
	return metric, nil
}

// List returns metrics newest first, optionally filtered by type
func (l *MetricsLogic) List(ctx context.Context, storeID, metricType string, limit int) (metrics []model.Metric, err error) {
	s := l.svc
	defer recoverBackend(s.log, "ListMetrics", &err)

	if err := s.requireStore(storeID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMetricsLimit
	}
	metricType = strings.TrimSpace(metricType)
	return listNewestFirst(s.log, "metrics", limit, func(q backend.ListQuery) ([]model.Metric, error) {
		q.MetricType = metricType
		return s.backend.ListMetrics(ctx, storeID, q)
	})
}

func (l *MetricsLogic) Delete(ctx context.Context, storeID, metricID string) (err error) {
	s := l.svc
	defer recoverBackend(s.log, "DeleteMetric", &err)

	if _, err := s.requireMutation(storeID); err != nil {
		return err
	}
	if err := s.backend.DeleteMetric(ctx, storeID, metricID); err != nil {
		return fromBackend(err, "metric")
	}
	return nil
}

// CalculateRevenue sums sale totals
func CalculateRevenue(sales []model.Sale) int64 {
	var total int64
	for _, sale := range sales {
		total += sale.Total
	}
	return total
}

func CalculateSalesCount(sales []model.Sale) SalesCount {
	if len(sales) == 0 {
		return SalesCount{}
	}
	return SalesCount{
		Count:   len(sales),
		Average: float64(CalculateRevenue(sales)) / float64(len(sales)),
	}
}

// TopProducts ranks products by quantity sold. Ties keep first-seen order.
func TopProducts(sales []model.Sale, limit int) []ProductStats {
	if limit <= 0 {
		limit = DefaultTopProducts
	}

	byID := make(map[string]*ProductStats)
	var order []string
	for _, sale := range sales {
		if sale.ProductID == "" {
			continue
		}
		st, ok := byID[sale.ProductID]
		if !ok {
			name := sale.ProductName
			if name == "" {
				name = "N/A"
			}
			st = &ProductStats{ProductID: sale.ProductID, ProductName: name}
			byID[sale.ProductID] = st
			order = append(order, sale.ProductID)
		}
		st.Quantity += sale.Quantity
		st.Revenue += sale.Total
	}

	out := make([]ProductStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *StoreService) RecordMetric(ctx context.Context, storeID string, in model.MetricInput) (*model.Metric, error) {
	return s.metrics.Record(ctx, storeID, in)
}

func (s *StoreService) ListMetrics(ctx context.Context, storeID, metricType string, limit int) ([]model.Metric, error) {
	return s.metrics.List(ctx, storeID, metricType, limit)
}

func (s *StoreService) DeleteMetric(ctx context.Context, storeID, metricID string) error {
	return s.metrics.Delete(ctx, storeID, metricID)
}

func (s *StoreService) CalculateRevenue(sales []model.Sale) int64 { return CalculateRevenue(sales) }

func (s *StoreService) CalculateSalesCount(sales []model.Sale) SalesCount {
	return CalculateSalesCount(sales)
}

func (s *StoreService) TopProducts(sales []model.Sale, limit int) []ProductStats {
	return TopProducts(sales, limit)
}
