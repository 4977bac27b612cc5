package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AnalysisPeriod string

const (
	PeriodDaily   AnalysisPeriod = "daily"
	PeriodWeekly  AnalysisPeriod = "weekly"
	PeriodMonthly AnalysisPeriod = "monthly"
)

// WorkloadAnalytics is a derived row, regenerated wholesale on every
// analysis run and upserted by (enabler_id, analysis_period, period_start).
type WorkloadAnalytics struct {
	EnablerID              uuid.UUID      `db:"enabler_id" json:"enabler_id"`
	AnalysisPeriod         AnalysisPeriod `db:"analysis_period" json:"analysis_period"`
	PeriodStart            time.Time      `db:"period_start" json:"period_start"`
	PeriodEnd              time.Time      `db:"period_end" json:"period_end"`
	TotalHoursWorked       float64        `db:"total_hours_worked" json:"total_hours_worked"`
	TotalBookings          int            `db:"total_bookings" json:"total_bookings"`
	AverageBookingDuration float64        `db:"average_booking_duration" json:"average_booking_duration"`
	BusiestDay             string         `db:"busiest_day" json:"busiest_day"`
	PeakPerformanceHours   pq.Int64Array  `db:"peak_performance_hours" json:"peak_performance_hours"`
	WorkloadDensity        float64        `db:"workload_density" json:"workload_density"`
	BurnoutRisk            float64        `db:"burnout_risk" json:"burnout_risk"`
	RestCompliance         float64        `db:"rest_compliance" json:"rest_compliance"`
	Recommendations        pq.StringArray `db:"recommendations" json:"recommendations"`
	entity.BaseEntity
}

func (WorkloadAnalytics) TableName() string {
	return "workload_analytics"
}
