package service

import (
	"context"
	"fmt"
	"time"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/config"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/modules/calendar/dto"
	"blink-scheduler/modules/calendar/entity"
	"blink-scheduler/modules/calendar/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CalendarService covers the provider-facing calendar surface that is not
// reconciliation: listing projections, manual unavailability blocks,
// availability rules, and preferences.
type CalendarService struct {
	repo repository.CalendarRepositoryInterface
	clk  clock.Clock
}

type CalendarServiceInterface interface {
	GetEvents(ctx context.Context, enablerID uuid.UUID, from, to *time.Time) ([]dto.CalendarEventResponse, *errors.AppError)
	CreateUnavailableBlock(ctx context.Context, enablerID uuid.UUID, req *dto.CreateUnavailableRequest) (*dto.CalendarEventResponse, *errors.AppError)
	CreateRule(ctx context.Context, enablerID uuid.UUID, req *dto.CreateRuleRequest) (*dto.RuleResponse, *errors.AppError)
	GetRules(ctx context.Context, enablerID uuid.UUID) ([]dto.RuleResponse, *errors.AppError)
	DeleteRule(ctx context.Context, enablerID, ruleID uuid.UUID) *errors.AppError
	GetPreferences(ctx context.Context, enablerID uuid.UUID) (*dto.PreferencesResponse, *errors.AppError)
	UpsertPreferences(ctx context.Context, enablerID uuid.UUID, req *dto.PreferencesRequest) (*dto.PreferencesResponse, *errors.AppError)
	GetShareURL(ctx context.Context, enablerID uuid.UUID, displayName string) (*dto.ShareURLResponse, *errors.AppError)
}

func NewCalendarService(repo repository.CalendarRepositoryInterface, clk clock.Clock) CalendarServiceInterface {
	return &CalendarService{repo: repo, clk: clk}
}

// GetEvents lists a provider's calendar projections, optionally bounded.
func (s *CalendarService) GetEvents(ctx context.Context, enablerID uuid.UUID, from, to *time.Time) ([]dto.CalendarEventResponse, *errors.AppError) {
	var events []entity.CalendarEvent
	var err error

	if from != nil && to != nil {
		events, err = s.repo.GetEventsByEnablerInRange(ctx, enablerID, *from, *to)
	} else {
		events, err = s.repo.GetEventsByEnabler(ctx, enablerID)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar events", err)
	}

	result := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		result = append(result, *dto.ToCalendarEventResponse(&events[i]))
	}
	return result, nil
}

// CreateUnavailableBlock records a manual unavailability entry. These have
// no source commitment, so the reconciler never touches them.
func (s *CalendarService) CreateUnavailableBlock(ctx context.Context, enablerID uuid.UUID, req *dto.CreateUnavailableRequest) (*dto.CalendarEventResponse, *errors.AppError) {
	if !req.IsAllDay && !req.StartDatetime.Before(req.EndDatetime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_datetime must be before end_datetime", nil)
	}

	title := req.Title
	if title == "" {
		title = "Unavailable"
	}

	created, err := s.repo.CreateEvent(ctx, &entity.CalendarEvent{
		EnablerID:     enablerID,
		EventType:     entity.CalendarEventTypeUnavailable,
		Title:         title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Status:        entity.CalendarEventStatusConfirmed,
		Color:         entity.ColorCancelled,
		IsAllDay:      req.IsAllDay,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create unavailability block", err)
	}

	logger.Info("CalendarService:CreateUnavailableBlock:Success",
		"enabler_id", enablerID, "calendar_event_id", created.ID)
	return dto.ToCalendarEventResponse(created), nil
}

func (s *CalendarService) CreateRule(ctx context.Context, enablerID uuid.UUID, req *dto.CreateRuleRequest) (*dto.RuleResponse, *errors.AppError) {
	if req.EndDate.Before(req.StartDate) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must not be before start_date", nil)
	}

	created, err := s.repo.CreateRule(ctx, &entity.AvailabilityRule{
		EnablerID:   enablerID,
		RuleType:    entity.RuleType(req.RuleType),
		IsAvailable: req.IsAvailable,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create availability rule", err)
	}

	return dto.ToRuleResponse(created), nil
}

func (s *CalendarService) GetRules(ctx context.Context, enablerID uuid.UUID) ([]dto.RuleResponse, *errors.AppError) {
	rules, err := s.repo.GetRulesByEnabler(ctx, enablerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load availability rules", err)
	}

	result := make([]dto.RuleResponse, 0, len(rules))
	for i := range rules {
		result = append(result, *dto.ToRuleResponse(&rules[i]))
	}
	return result, nil
}

func (s *CalendarService) DeleteRule(ctx context.Context, enablerID, ruleID uuid.UUID) *errors.AppError {
	if err := s.repo.DeleteRule(ctx, enablerID, ruleID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete availability rule", err)
	}
	return nil
}

func (s *CalendarService) GetPreferences(ctx context.Context, enablerID uuid.UUID) (*dto.PreferencesResponse, *errors.AppError) {
	prefs, err := s.repo.GetPreferencesByEnabler(ctx, enablerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load preferences", err)
	}
	if prefs == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no calendar preferences configured", nil)
	}
	return dto.ToPreferencesResponse(prefs), nil
}

func (s *CalendarService) UpsertPreferences(ctx context.Context, enablerID uuid.UUID, req *dto.PreferencesRequest) (*dto.PreferencesResponse, *errors.AppError) {
	saved, err := s.repo.UpsertPreferences(ctx, &entity.CalendarPreferences{
		EnablerID:                          enablerID,
		WorkingDays:                        req.WorkingDays,
		WorkStartTime:                      req.WorkStartTime,
		WorkEndTime:                        req.WorkEndTime,
		MaxHoursPerDay:                     req.MaxHoursPerDay,
		MaxHoursPerWeek:                    req.MaxHoursPerWeek,
		MaxBookingsPerDay:                  req.MaxBookingsPerDay,
		MinimumBreakBetweenBookingsMinutes: req.MinimumBreakBetweenBookingsMinutes,
		AllowBackToBackBookings:            req.AllowBackToBackBookings,
		PresetMode:                         req.PresetMode,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save preferences", err)
	}
	return dto.ToPreferencesResponse(saved), nil
}

// GetShareURL builds the public read-only calendar page URL for a provider.
func (s *CalendarService) GetShareURL(ctx context.Context, enablerID uuid.UUID, displayName string) (*dto.ShareURLResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}

	name := displayName
	if name == "" {
		name = "enabler"
	}

	url := fmt.Sprintf("%s/calendar/%s-%s", cfg.Server.BaseURL, slug.Make(name), enablerID.String()[:8])
	return &dto.ShareURLResponse{URL: url}, nil
}
