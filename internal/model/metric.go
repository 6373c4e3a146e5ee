package model

import "time"

// Period of a recorded metric
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Valid reports whether p is a known period
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type Metric struct {
	BaseModel
	StoreID     string    `gorm:"type:varchar(64);index;not null" json:"store_id"`
	MetricType  string    `gorm:"type:varchar(50);index;not null" json:"metric_type"` // sales, revenue, inventory...
	Value       float64   `gorm:"not null" json:"value"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Period      Period    `gorm:"type:varchar(10);default:'daily'" json:"period"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

// MetricInput is what an adapter collects to record a metric
type MetricInput struct {
	MetricType  string `json:"metric_type" validate:"required,trimmed_min=1"`
	Value       string `json:"value" validate:"required,numeric"`
	Description string `json:"description"`
	Period      string `json:"period" validate:"omitempty,oneof=daily weekly monthly yearly"`
}

func (m Metric) SortTime() time.Time { return m.Timestamp }
