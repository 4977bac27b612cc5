package service

import (
	"context"
	"fmt"
	"time"

	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/timeutil"
	calendarentity "blink-scheduler/modules/calendar/entity"
	calendarrepo "blink-scheduler/modules/calendar/repository"
	"blink-scheduler/modules/scheduling/dto"

	"github.com/google/uuid"
)

const (
	ConflictTypeOverlap       = "overlap"
	ConflictTypeBlackout      = "blackout"
	ConflictTypeNonWorkingDay = "non_working_day"
)

// Event statuses that block a candidate slot. Pending and cancelled
// events do not reserve the provider's time.
var blockingStatuses = map[calendarentity.CalendarEventStatus]bool{
	calendarentity.CalendarEventStatusConfirmed:  true,
	calendarentity.CalendarEventStatusInSetup:    true,
	calendarentity.CalendarEventStatusInProgress: true,
}

type ConflictDetectorInterface interface {
	DetectConflicts(ctx context.Context, enablerID uuid.UUID, start, end time.Time) (*dto.ConflictCheckResponse, *errors.AppError)
}

// ConflictDetector answers "can this provider take a booking in this
// window". It is read only; callers decide what to do with conflicts.
type ConflictDetector struct {
	calendarRepo calendarrepo.CalendarRepositoryInterface
}

func NewConflictDetector(calendarRepo calendarrepo.CalendarRepositoryInterface) *ConflictDetector {
	return &ConflictDetector{calendarRepo: calendarRepo}
}

// DetectConflicts checks a candidate interval against the provider's
// calendar events, blackout rules, and working days. All three checks
// always run; a slot can fail more than one.
func (s *ConflictDetector) DetectConflicts(ctx context.Context, enablerID uuid.UUID, start, end time.Time) (*dto.ConflictCheckResponse, *errors.AppError) {
	logger.Info("ConflictDetector:DetectConflicts:Start", "enabler_id", enablerID, "start", start, "end", end)

	if !start.Before(end) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_datetime must be before end_datetime", nil)
	}

	conflicts := []dto.Conflict{}

	events, err := s.calendarRepo.GetEventsByEnabler(ctx, enablerID)
	if err != nil {
		logger.Error("ConflictDetector:DetectConflicts:Events:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar events", err.Error())
	}
	for _, event := range events {
		if !blockingStatuses[event.Status] {
			continue
		}
		if timeutil.Overlaps(start, end, event.StartDatetime, event.EndDatetime) {
			conflicts = append(conflicts, dto.Conflict{
				Type:       ConflictTypeOverlap,
				Message:    fmt.Sprintf("Overlaps with %q (%s to %s)", event.Title, event.StartDatetime.Format(time.RFC3339), event.EndDatetime.Format(time.RFC3339)),
				EventID:    event.ID.String(),
				EventTitle: event.Title,
			})
		}
	}

	rules, err := s.calendarRepo.GetBlackoutRules(ctx, enablerID)
	if err != nil {
		logger.Error("ConflictDetector:DetectConflicts:Rules:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load availability rules", err.Error())
	}
	for _, rule := range rules {
		// The whole candidate interval is checked against the blackout
		// window, not just its start instant.
		if timeutil.Overlaps(start, end, rule.StartDate, rule.EndDate) {
			conflicts = append(conflicts, dto.Conflict{
				Type:    ConflictTypeBlackout,
				Message: fmt.Sprintf("Falls within a blackout period (%s to %s)", rule.StartDate.Format("2006-01-02"), rule.EndDate.Format("2006-01-02")),
			})
		}
	}

	prefs, err := s.calendarRepo.GetPreferencesByEnabler(ctx, enablerID)
	if err != nil {
		logger.Error("ConflictDetector:DetectConflicts:Preferences:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar preferences", err.Error())
	}
	if prefs != nil && !prefs.IsWorkingDay(start.Weekday()) {
		conflicts = append(conflicts, dto.Conflict{
			Type:    ConflictTypeNonWorkingDay,
			Message: fmt.Sprintf("%s is not one of the provider's working days", start.Weekday()),
		})
	}

	logger.Info("ConflictDetector:DetectConflicts:Success", "enabler_id", enablerID, "conflicts", len(conflicts))
	return &dto.ConflictCheckResponse{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
	}, nil
}
