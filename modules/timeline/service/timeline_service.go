package service

import (
	"context"
	"fmt"
	"sort"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/constants"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/timeutil"
	"blink-scheduler/modules/timeline/dto"
	"blink-scheduler/modules/timeline/entity"
	"blink-scheduler/modules/timeline/repository"

	"github.com/google/uuid"
)

type TimelineServiceInterface interface {
	GetTimeline(ctx context.Context, eventID uuid.UUID) (*dto.TimelineResponse, *errors.AppError)
	UpsertTimeline(ctx context.Context, eventID uuid.UUID, req *dto.UpsertTimelineRequest) (*dto.TimelineResponse, *errors.AppError)
	AnalyzeTimeline(ctx context.Context, eventID uuid.UUID) (*dto.TimelineAnalysisResponse, *errors.AppError)
}

// TimelineService keeps an event's run sheet and flags overlapping
// segments. Suggested shifts are written next to the items and left for
// the host to apply.
type TimelineService struct {
	repo repository.TimelineRepositoryInterface
	clk  clock.Clock
}

func NewTimelineService(repo repository.TimelineRepositoryInterface, clk clock.Clock) *TimelineService {
	return &TimelineService{repo: repo, clk: clk}
}

func (s *TimelineService) GetTimeline(ctx context.Context, eventID uuid.UUID) (*dto.TimelineResponse, *errors.AppError) {
	timeline, err := s.repo.GetTimelineByEventID(ctx, eventID)
	if err != nil {
		logger.Error("TimelineService:GetTimeline:Error", "event_id", eventID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load timeline", err.Error())
	}
	if timeline == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Timeline not found", nil)
	}

	return dto.ToTimelineResponse(timeline), nil
}

func (s *TimelineService) UpsertTimeline(ctx context.Context, eventID uuid.UUID, req *dto.UpsertTimelineRequest) (*dto.TimelineResponse, *errors.AppError) {
	logger.Info("TimelineService:UpsertTimeline:Start", "event_id", eventID, "items", len(req.Items))

	for i := range req.Items {
		item := &req.Items[i]
		if item.ID == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "every timeline item needs an id", nil)
		}
		if !item.ScheduledStart.Before(item.ScheduledEnd) {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("item %s: scheduled_start must be before scheduled_end", item.ID), nil)
		}
	}

	saved, err := s.repo.UpsertTimeline(ctx, &entity.EventTimeline{
		EventID:                 eventID,
		Items:                   entity.TimelineItems(req.Items),
		ConflictWarnings:        entity.TimelineConflicts{},
		OptimizationSuggestions: entity.TimelineSuggestions{},
	})
	if err != nil {
		logger.Error("TimelineService:UpsertTimeline:Error", "event_id", eventID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save timeline", err.Error())
	}

	return dto.ToTimelineResponse(saved), nil
}

// AnalyzeTimeline recomputes conflicts and shift suggestions for the
// event's run sheet. Items themselves are never moved.
func (s *TimelineService) AnalyzeTimeline(ctx context.Context, eventID uuid.UUID) (*dto.TimelineAnalysisResponse, *errors.AppError) {
	logger.Info("TimelineService:AnalyzeTimeline:Start", "event_id", eventID)

	timeline, err := s.repo.GetTimelineByEventID(ctx, eventID)
	if err != nil {
		logger.Error("TimelineService:AnalyzeTimeline:Error", "event_id", eventID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load timeline", err.Error())
	}
	if timeline == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Timeline not found", nil)
	}

	conflicts, suggestions := analyzeItems(timeline.Items)

	analyzedAt := s.clk.Now()
	if err := s.repo.UpdateTimelineAnalysis(ctx, eventID, conflicts, suggestions, analyzedAt); err != nil {
		logger.Error("TimelineService:AnalyzeTimeline:Save:Error", "event_id", eventID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save timeline analysis", err.Error())
	}

	logger.Info("TimelineService:AnalyzeTimeline:Success", "event_id", eventID, "conflicts", len(conflicts))
	return &dto.TimelineAnalysisResponse{
		EventID:     eventID,
		Conflicts:   []entity.TimelineConflict(conflicts),
		Suggestions: []entity.TimelineSuggestion(suggestions),
		AnalyzedAt:  analyzedAt,
	}, nil
}

// analyzeItems flags every overlapping pair of items by their effective
// intervals (setup through teardown). For each conflict the later item
// gets a suggested shift of the overlap plus a buffer.
func analyzeItems(items entity.TimelineItems) (entity.TimelineConflicts, entity.TimelineSuggestions) {
	sorted := make([]entity.TimelineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveStart().Before(sorted[j].EffectiveStart())
	})

	conflicts := entity.TimelineConflicts{}
	suggestions := entity.TimelineSuggestions{}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			first, second := sorted[i], sorted[j]
			if !timeutil.Overlaps(first.EffectiveStart(), first.EffectiveEnd(), second.EffectiveStart(), second.EffectiveEnd()) {
				continue
			}

			// Measured from the later start to the earlier item's end, so a
			// shift of overlap plus buffer clears the pair even when one item
			// sits entirely inside the other.
			overlapMinutes := first.EffectiveEnd().Sub(second.EffectiveStart()).Minutes()

			conflicts = append(conflicts, entity.TimelineConflict{
				FirstItemID:    first.ID,
				SecondItemID:   second.ID,
				OverlapMinutes: overlapMinutes,
				Message: fmt.Sprintf("%q (%s) overlaps with %q (%s) by %.0f minutes",
					first.Title, first.EnablerName, second.Title, second.EnablerName, overlapMinutes),
			})

			shift := overlapMinutes + constants.TimelineShiftBufferMinutes
			suggestions = append(suggestions, entity.TimelineSuggestion{
				ItemID:         second.ID,
				ShiftMinutes:   shift,
				SuggestedStart: second.ScheduledStart.Add(timeutil.Minutes(shift)),
				Message:        fmt.Sprintf("Move %q %.0f minutes later to clear the overlap", second.Title, shift),
			})
		}
	}

	return conflicts, suggestions
}
