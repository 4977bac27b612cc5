package dto

import (
	"time"

	"blink-scheduler/modules/timeline/entity"

	"github.com/google/uuid"
)

type UpsertTimelineRequest struct {
	Items []entity.TimelineItem `json:"items" validate:"required"`
}

type TimelineResponse struct {
	ID                      uuid.UUID                   `json:"id"`
	EventID                 uuid.UUID                   `json:"event_id"`
	Items                   []entity.TimelineItem       `json:"items"`
	AIOptimized             bool                        `json:"ai_optimized"`
	ConflictWarnings        []entity.TimelineConflict   `json:"conflict_warnings"`
	OptimizationSuggestions []entity.TimelineSuggestion `json:"optimization_suggestions"`
	LastSyncedAt            *time.Time                  `json:"last_synced_at,omitempty"`
}

func ToTimelineResponse(timeline *entity.EventTimeline) *TimelineResponse {
	return &TimelineResponse{
		ID:                      timeline.ID,
		EventID:                 timeline.EventID,
		Items:                   []entity.TimelineItem(timeline.Items),
		AIOptimized:             timeline.AIOptimized,
		ConflictWarnings:        []entity.TimelineConflict(timeline.ConflictWarnings),
		OptimizationSuggestions: []entity.TimelineSuggestion(timeline.OptimizationSuggestions),
		LastSyncedAt:            timeline.LastSyncedAt,
	}
}

type TimelineAnalysisResponse struct {
	EventID     uuid.UUID                   `json:"event_id"`
	Conflicts   []entity.TimelineConflict   `json:"conflicts"`
	Suggestions []entity.TimelineSuggestion `json:"suggestions"`
	AnalyzedAt  time.Time                   `json:"analyzed_at"`
}
