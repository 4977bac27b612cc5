package repository

import (
	"context"
	"database/sql"
	"time"

	"blink-scheduler/core/database"
	"blink-scheduler/core/logger"
	"blink-scheduler/modules/calendar/entity"

	"github.com/google/uuid"
)

// CalendarRepositoryInterface is the projection-side store: calendar
// events, availability rules, and per-provider preferences.
type CalendarRepositoryInterface interface {
	// Calendar events
	CreateEvent(ctx context.Context, event *entity.CalendarEvent) (*entity.CalendarEvent, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.CalendarEvent, error)
	GetEventByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.CalendarEvent, error)
	GetEventsByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error)
	GetEventsByEnablerInRange(ctx context.Context, enablerID uuid.UUID, from, to time.Time) ([]entity.CalendarEvent, error)
	GetBookingLinkedEvents(ctx context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error)
	UpdateEvent(ctx context.Context, event *entity.CalendarEvent) error

	// Availability rules
	CreateRule(ctx context.Context, rule *entity.AvailabilityRule) (*entity.AvailabilityRule, error)
	GetRulesByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error)
	GetBlackoutRules(ctx context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error)
	DeleteRule(ctx context.Context, enablerID, ruleID uuid.UUID) error

	// Preferences
	GetPreferencesByEnabler(ctx context.Context, enablerID uuid.UUID) (*entity.CalendarPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *entity.CalendarPreferences) (*entity.CalendarPreferences, error)
	ListEnablerIDs(ctx context.Context) ([]uuid.UUID, error)
}

type CalendarRepository struct {
	DB database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

const calendarEventColumns = `id, enabler_id, booking_id, event_id, event_type, title, description,
	       start_datetime, end_datetime, status, color, is_all_day, created_at, updated_at`

// ===================== Calendar events =====================

func (r *CalendarRepository) CreateEvent(ctx context.Context, event *entity.CalendarEvent) (*entity.CalendarEvent, error) {
	query := `
		INSERT INTO calendar_events (enabler_id, booking_id, event_id, event_type, title, description,
		                             start_datetime, end_datetime, status, color, is_all_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + calendarEventColumns + `
	`

	var created entity.CalendarEvent
	err := r.DB.GetContext(ctx, &created, query,
		event.EnablerID, event.BookingID, event.EventID, event.EventType,
		event.Title, event.Description, event.StartDatetime, event.EndDatetime,
		event.Status, event.Color, event.IsAllDay)
	if err != nil {
		logger.Error("CalendarRepository:CreateEvent", err)
		return nil, err
	}

	return &created, nil
}

func (r *CalendarRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events WHERE id = $1`

	var event entity.CalendarEvent
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *CalendarRepository) GetEventByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.CalendarEvent, error) {
	query := `
		SELECT ` + calendarEventColumns + `
		FROM calendar_events WHERE booking_id = $1
		ORDER BY created_at LIMIT 1
	`

	var event entity.CalendarEvent
	err := r.DB.GetContext(ctx, &event, query, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetEventByBookingID", err)
		return nil, err
	}

	return &event, nil
}

func (r *CalendarRepository) GetEventsByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error) {
	query := `
		SELECT ` + calendarEventColumns + `
		FROM calendar_events
		WHERE enabler_id = $1
		ORDER BY start_datetime
	`

	var events []entity.CalendarEvent
	err := r.DB.SelectContext(ctx, &events, query, enablerID)
	if err != nil {
		logger.Error("CalendarRepository:GetEventsByEnabler", err)
		return nil, err
	}

	return events, nil
}

func (r *CalendarRepository) GetEventsByEnablerInRange(ctx context.Context, enablerID uuid.UUID, from, to time.Time) ([]entity.CalendarEvent, error) {
	query := `
		SELECT ` + calendarEventColumns + `
		FROM calendar_events
		WHERE enabler_id = $1 AND start_datetime >= $2 AND start_datetime < $3
		ORDER BY start_datetime
	`

	var events []entity.CalendarEvent
	err := r.DB.SelectContext(ctx, &events, query, enablerID, from, to)
	if err != nil {
		logger.Error("CalendarRepository:GetEventsByEnablerInRange", err)
		return nil, err
	}

	return events, nil
}

func (r *CalendarRepository) GetBookingLinkedEvents(ctx context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error) {
	query := `
		SELECT ` + calendarEventColumns + `
		FROM calendar_events
		WHERE enabler_id = $1 AND booking_id IS NOT NULL
		ORDER BY start_datetime
	`

	var events []entity.CalendarEvent
	err := r.DB.SelectContext(ctx, &events, query, enablerID)
	if err != nil {
		logger.Error("CalendarRepository:GetBookingLinkedEvents", err)
		return nil, err
	}

	return events, nil
}

func (r *CalendarRepository) UpdateEvent(ctx context.Context, event *entity.CalendarEvent) error {
	query := `
		UPDATE calendar_events
		SET title = $2, description = $3, start_datetime = $4, end_datetime = $5,
		    status = $6, color = $7, is_all_day = $8, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.StartDatetime,
		event.EndDatetime, event.Status, event.Color, event.IsAllDay)
	if err != nil {
		logger.Error("CalendarRepository:UpdateEvent", err)
		return err
	}

	return nil
}

// ===================== Availability rules =====================

func (r *CalendarRepository) CreateRule(ctx context.Context, rule *entity.AvailabilityRule) (*entity.AvailabilityRule, error) {
	query := `
		INSERT INTO availability_rules (enabler_id, rule_type, is_available, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, enabler_id, rule_type, is_available, start_date, end_date, created_at, updated_at
	`

	var created entity.AvailabilityRule
	err := r.DB.GetContext(ctx, &created, query,
		rule.EnablerID, rule.RuleType, rule.IsAvailable, rule.StartDate, rule.EndDate)
	if err != nil {
		logger.Error("CalendarRepository:CreateRule", err)
		return nil, err
	}

	return &created, nil
}

func (r *CalendarRepository) GetRulesByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error) {
	query := `
		SELECT id, enabler_id, rule_type, is_available, start_date, end_date, created_at, updated_at
		FROM availability_rules
		WHERE enabler_id = $1
		ORDER BY start_date
	`

	var rules []entity.AvailabilityRule
	err := r.DB.SelectContext(ctx, &rules, query, enablerID)
	if err != nil {
		logger.Error("CalendarRepository:GetRulesByEnabler", err)
		return nil, err
	}

	return rules, nil
}

func (r *CalendarRepository) GetBlackoutRules(ctx context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error) {
	query := `
		SELECT id, enabler_id, rule_type, is_available, start_date, end_date, created_at, updated_at
		FROM availability_rules
		WHERE enabler_id = $1 AND rule_type = $2 AND is_available = false
		ORDER BY start_date
	`

	var rules []entity.AvailabilityRule
	err := r.DB.SelectContext(ctx, &rules, query, enablerID, entity.RuleTypeBlackout)
	if err != nil {
		logger.Error("CalendarRepository:GetBlackoutRules", err)
		return nil, err
	}

	return rules, nil
}

func (r *CalendarRepository) DeleteRule(ctx context.Context, enablerID, ruleID uuid.UUID) error {
	query := `DELETE FROM availability_rules WHERE id = $1 AND enabler_id = $2`
	if err := r.DB.ExecContext(ctx, query, ruleID, enablerID); err != nil {
		logger.Error("CalendarRepository:DeleteRule", err)
		return err
	}
	return nil
}

// ===================== Preferences =====================

func (r *CalendarRepository) GetPreferencesByEnabler(ctx context.Context, enablerID uuid.UUID) (*entity.CalendarPreferences, error) {
	query := `
		SELECT id, enabler_id, working_days, work_start_time, work_end_time, max_hours_per_day,
		       max_hours_per_week, max_bookings_per_day, minimum_break_between_bookings_minutes,
		       allow_back_to_back_bookings, preset_mode, created_at, updated_at
		FROM calendar_preferences WHERE enabler_id = $1
	`

	var prefs entity.CalendarPreferences
	err := r.DB.GetContext(ctx, &prefs, query, enablerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetPreferencesByEnabler", err)
		return nil, err
	}

	return &prefs, nil
}

func (r *CalendarRepository) UpsertPreferences(ctx context.Context, prefs *entity.CalendarPreferences) (*entity.CalendarPreferences, error) {
	query := `
		INSERT INTO calendar_preferences (enabler_id, working_days, work_start_time, work_end_time,
		                                  max_hours_per_day, max_hours_per_week, max_bookings_per_day,
		                                  minimum_break_between_bookings_minutes, allow_back_to_back_bookings, preset_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (enabler_id) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			max_hours_per_day = EXCLUDED.max_hours_per_day,
			max_hours_per_week = EXCLUDED.max_hours_per_week,
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			minimum_break_between_bookings_minutes = EXCLUDED.minimum_break_between_bookings_minutes,
			allow_back_to_back_bookings = EXCLUDED.allow_back_to_back_bookings,
			preset_mode = EXCLUDED.preset_mode,
			updated_at = NOW()
		RETURNING id, enabler_id, working_days, work_start_time, work_end_time, max_hours_per_day,
		          max_hours_per_week, max_bookings_per_day, minimum_break_between_bookings_minutes,
		          allow_back_to_back_bookings, preset_mode, created_at, updated_at
	`

	var saved entity.CalendarPreferences
	err := r.DB.GetContext(ctx, &saved, query,
		prefs.EnablerID, prefs.WorkingDays, prefs.WorkStartTime, prefs.WorkEndTime,
		prefs.MaxHoursPerDay, prefs.MaxHoursPerWeek, prefs.MaxBookingsPerDay,
		prefs.MinimumBreakBetweenBookingsMinutes, prefs.AllowBackToBackBookings, prefs.PresetMode)
	if err != nil {
		logger.Error("CalendarRepository:UpsertPreferences", err)
		return nil, err
	}

	return &saved, nil
}

func (r *CalendarRepository) ListEnablerIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT enabler_id FROM calendar_preferences ORDER BY created_at`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query)
	if err != nil {
		logger.Error("CalendarRepository:ListEnablerIDs", err)
		return nil, err
	}

	return ids, nil
}
