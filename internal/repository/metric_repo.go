package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/model"
)

type metricRepo struct {
	db *gorm.DB
}

func newMetricRepo(db *gorm.DB) *metricRepo {
	return &metricRepo{db}
}

func (r *metricRepo) RecordMetric(ctx context.Context, metric *model.Metric) (string, error) {
	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(metric).Error; err != nil {
		return "", err
	}
	return metric.ID, nil
}

func (r *metricRepo) ListMetrics(ctx context.Context, storeID string, q backend.ListQuery) ([]model.Metric, error) {
	var metrics []model.Metric
	db := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if q.MetricType != "" {
		db = db.Where("metric_type = ?", q.MetricType)
	}
	err := limitQuery(db, q).Find(&metrics).Error
	return metrics, err
}

func (r *metricRepo) DeleteMetric(ctx context.Context, storeID, metricID string) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Metric{}, "id = ? AND store_id = ?", metricID, storeID))
}
