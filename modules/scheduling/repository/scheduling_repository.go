package repository

import (
	"context"
	"database/sql"
	"time"

	"blink-scheduler/core/database"
	"blink-scheduler/core/logger"
	"blink-scheduler/modules/scheduling/entity"

	"github.com/google/uuid"
)

// SchedulingRepositoryInterface stores derived analytics rows and the
// insights generated from them. Analytics rows are regenerated wholesale
// on every run, keyed by (enabler_id, analysis_period, period_start).
type SchedulingRepositoryInterface interface {
	UpsertAnalytics(ctx context.Context, analytics *entity.WorkloadAnalytics) (*entity.WorkloadAnalytics, error)
	GetLatestAnalytics(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*entity.WorkloadAnalytics, error)

	CreateInsight(ctx context.Context, insight *entity.SchedulingInsight) (*entity.SchedulingInsight, error)
	HasPendingInsight(ctx context.Context, enablerID uuid.UUID, insightType entity.InsightType) (bool, error)
	GetInsightsByEnabler(ctx context.Context, enablerID uuid.UUID, status entity.InsightStatus) ([]entity.SchedulingInsight, error)
	UpdateInsightStatus(ctx context.Context, enablerID, insightID uuid.UUID, status entity.InsightStatus) error
	ExpireInsights(ctx context.Context, now time.Time) error
}

type SchedulingRepository struct {
	DB database.IDatabase
}

func NewSchedulingRepository(db database.IDatabase) *SchedulingRepository {
	return &SchedulingRepository{DB: db}
}

const analyticsColumns = `id, enabler_id, analysis_period, period_start, period_end,
	       total_hours_worked, total_bookings, average_booking_duration, busiest_day,
	       peak_performance_hours, workload_density, burnout_risk, rest_compliance,
	       recommendations, created_at, updated_at`

// ===================== Workload analytics =====================

func (r *SchedulingRepository) UpsertAnalytics(ctx context.Context, analytics *entity.WorkloadAnalytics) (*entity.WorkloadAnalytics, error) {
	query := `
		INSERT INTO workload_analytics (enabler_id, analysis_period, period_start, period_end,
		                                total_hours_worked, total_bookings, average_booking_duration, busiest_day,
		                                peak_performance_hours, workload_density, burnout_risk, rest_compliance,
		                                recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (enabler_id, analysis_period, period_start) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			total_hours_worked = EXCLUDED.total_hours_worked,
			total_bookings = EXCLUDED.total_bookings,
			average_booking_duration = EXCLUDED.average_booking_duration,
			busiest_day = EXCLUDED.busiest_day,
			peak_performance_hours = EXCLUDED.peak_performance_hours,
			workload_density = EXCLUDED.workload_density,
			burnout_risk = EXCLUDED.burnout_risk,
			rest_compliance = EXCLUDED.rest_compliance,
			recommendations = EXCLUDED.recommendations,
			updated_at = NOW()
		RETURNING ` + analyticsColumns + `
	`

	var saved entity.WorkloadAnalytics
	err := r.DB.GetContext(ctx, &saved, query,
		analytics.EnablerID, analytics.AnalysisPeriod, analytics.PeriodStart, analytics.PeriodEnd,
		analytics.TotalHoursWorked, analytics.TotalBookings, analytics.AverageBookingDuration, analytics.BusiestDay,
		analytics.PeakPerformanceHours, analytics.WorkloadDensity, analytics.BurnoutRisk, analytics.RestCompliance,
		analytics.Recommendations)
	if err != nil {
		logger.Error("SchedulingRepository:UpsertAnalytics", err)
		return nil, err
	}

	return &saved, nil
}

func (r *SchedulingRepository) GetLatestAnalytics(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*entity.WorkloadAnalytics, error) {
	query := `
		SELECT ` + analyticsColumns + `
		FROM workload_analytics
		WHERE enabler_id = $1 AND analysis_period = $2
		ORDER BY period_start DESC
		LIMIT 1
	`

	var analytics entity.WorkloadAnalytics
	err := r.DB.GetContext(ctx, &analytics, query, enablerID, period)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SchedulingRepository:GetLatestAnalytics", err)
		return nil, err
	}

	return &analytics, nil
}

// ===================== Scheduling insights =====================

const insightColumns = `id, enabler_id, insight_type, title, message, confidence_score,
	       suggested_action, priority, status, expires_at, created_at, updated_at`

func (r *SchedulingRepository) CreateInsight(ctx context.Context, insight *entity.SchedulingInsight) (*entity.SchedulingInsight, error) {
	query := `
		INSERT INTO scheduling_insights (enabler_id, insight_type, title, message, confidence_score,
		                                 suggested_action, priority, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + insightColumns + `
	`

	var created entity.SchedulingInsight
	err := r.DB.GetContext(ctx, &created, query,
		insight.EnablerID, insight.InsightType, insight.Title, insight.Message,
		insight.ConfidenceScore, insight.SuggestedAction, insight.Priority,
		insight.Status, insight.ExpiresAt)
	if err != nil {
		logger.Error("SchedulingRepository:CreateInsight", err)
		return nil, err
	}

	return &created, nil
}

func (r *SchedulingRepository) HasPendingInsight(ctx context.Context, enablerID uuid.UUID, insightType entity.InsightType) (bool, error) {
	query := `
		SELECT COUNT(1) FROM scheduling_insights
		WHERE enabler_id = $1 AND insight_type = $2 AND status = $3
	`

	var count int
	err := r.DB.GetContext(ctx, &count, query, enablerID, insightType, entity.InsightStatusPending)
	if err != nil {
		logger.Error("SchedulingRepository:HasPendingInsight", err)
		return false, err
	}

	return count > 0, nil
}

func (r *SchedulingRepository) GetInsightsByEnabler(ctx context.Context, enablerID uuid.UUID, status entity.InsightStatus) ([]entity.SchedulingInsight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM scheduling_insights
		WHERE enabler_id = $1
	`
	args := []any{enablerID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var insights []entity.SchedulingInsight
	err := r.DB.SelectContext(ctx, &insights, query, args...)
	if err != nil {
		logger.Error("SchedulingRepository:GetInsightsByEnabler", err)
		return nil, err
	}

	return insights, nil
}

func (r *SchedulingRepository) UpdateInsightStatus(ctx context.Context, enablerID, insightID uuid.UUID, status entity.InsightStatus) error {
	query := `
		UPDATE scheduling_insights SET status = $3, updated_at = NOW()
		WHERE id = $1 AND enabler_id = $2
	`

	if err := r.DB.ExecContext(ctx, query, insightID, enablerID, status); err != nil {
		logger.Error("SchedulingRepository:UpdateInsightStatus", err)
		return err
	}
	return nil
}

func (r *SchedulingRepository) ExpireInsights(ctx context.Context, now time.Time) error {
	query := `
		UPDATE scheduling_insights
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at < $3
	`

	if err := r.DB.ExecContext(ctx, query, entity.InsightStatusExpired, entity.InsightStatusPending, now); err != nil {
		logger.Error("SchedulingRepository:ExpireInsights", err)
		return err
	}
	return nil
}
