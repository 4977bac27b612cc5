package repository

import (
	"context"
	"database/sql"
	"time"

	"blink-scheduler/core/database"
	"blink-scheduler/core/logger"
	"blink-scheduler/modules/timeline/entity"

	"github.com/google/uuid"
)

type TimelineRepositoryInterface interface {
	GetTimelineByEventID(ctx context.Context, eventID uuid.UUID) (*entity.EventTimeline, error)
	UpsertTimeline(ctx context.Context, timeline *entity.EventTimeline) (*entity.EventTimeline, error)
	UpdateTimelineAnalysis(ctx context.Context, eventID uuid.UUID, conflicts entity.TimelineConflicts, suggestions entity.TimelineSuggestions, syncedAt time.Time) error
}

type TimelineRepository struct {
	DB database.IDatabase
}

func NewTimelineRepository(db database.IDatabase) *TimelineRepository {
	return &TimelineRepository{DB: db}
}

const timelineColumns = `id, event_id, items, ai_optimized, conflict_warnings,
	       optimization_suggestions, last_synced_at, created_at, updated_at`

func (r *TimelineRepository) GetTimelineByEventID(ctx context.Context, eventID uuid.UUID) (*entity.EventTimeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM event_timelines WHERE event_id = $1`

	var timeline entity.EventTimeline
	err := r.DB.GetContext(ctx, &timeline, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("TimelineRepository:GetTimelineByEventID", err)
		return nil, err
	}

	return &timeline, nil
}

func (r *TimelineRepository) UpsertTimeline(ctx context.Context, timeline *entity.EventTimeline) (*entity.EventTimeline, error) {
	query := `
		INSERT INTO event_timelines (event_id, items, ai_optimized, conflict_warnings, optimization_suggestions)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO UPDATE SET
			items = EXCLUDED.items,
			ai_optimized = EXCLUDED.ai_optimized,
			conflict_warnings = EXCLUDED.conflict_warnings,
			optimization_suggestions = EXCLUDED.optimization_suggestions,
			updated_at = NOW()
		RETURNING ` + timelineColumns + `
	`

	var saved entity.EventTimeline
	err := r.DB.GetContext(ctx, &saved, query,
		timeline.EventID, timeline.Items, timeline.AIOptimized,
		timeline.ConflictWarnings, timeline.OptimizationSuggestions)
	if err != nil {
		logger.Error("TimelineRepository:UpsertTimeline", err)
		return nil, err
	}

	return &saved, nil
}

func (r *TimelineRepository) UpdateTimelineAnalysis(ctx context.Context, eventID uuid.UUID, conflicts entity.TimelineConflicts, suggestions entity.TimelineSuggestions, syncedAt time.Time) error {
	query := `
		UPDATE event_timelines
		SET ai_optimized = true, conflict_warnings = $2, optimization_suggestions = $3,
		    last_synced_at = $4, updated_at = NOW()
		WHERE event_id = $1
	`

	if err := r.DB.ExecContext(ctx, query, eventID, conflicts, suggestions, syncedAt); err != nil {
		logger.Error("TimelineRepository:UpdateTimelineAnalysis", err)
		return err
	}
	return nil
}
