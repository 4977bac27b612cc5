package dto

import (
	"time"

	"blink-scheduler/modules/calendar/entity"
)

// ===================== Sync =====================

// SyncError records one item the reconciler could not process. The batch
// keeps going; callers get the full picture at the end.
type SyncError struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

// SyncReport is the outcome of one reconciliation run.
type SyncReport struct {
	Synced  int         `json:"synced"`
	Skipped int         `json:"skipped"`
	Errors  []SyncError `json:"errors"`
}

// ===================== Calendar events =====================

type CalendarEventResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id,omitempty"`
	EventID       string    `json:"event_id,omitempty"`
	EventType     string    `json:"event_type"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Status        string    `json:"status"`
	Color         string    `json:"color"`
	IsAllDay      bool      `json:"is_all_day"`
}

type CreateUnavailableRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDatetime time.Time `json:"start_datetime" validate:"required"`
	EndDatetime   time.Time `json:"end_datetime" validate:"required"`
	IsAllDay      bool      `json:"is_all_day"`
}

// ===================== Availability rules =====================

type CreateRuleRequest struct {
	RuleType    string    `json:"rule_type" validate:"required"`
	IsAvailable bool      `json:"is_available"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

type RuleResponse struct {
	ID          string    `json:"id"`
	RuleType    string    `json:"rule_type"`
	IsAvailable bool      `json:"is_available"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// ===================== Preferences =====================

type PreferencesRequest struct {
	WorkingDays                        []string `json:"working_days"`
	WorkStartTime                      string   `json:"work_start_time"`
	WorkEndTime                        string   `json:"work_end_time"`
	MaxHoursPerDay                     float64  `json:"max_hours_per_day"`
	MaxHoursPerWeek                    float64  `json:"max_hours_per_week"`
	MaxBookingsPerDay                  int      `json:"max_bookings_per_day"`
	MinimumBreakBetweenBookingsMinutes int      `json:"minimum_break_between_bookings_minutes"`
	AllowBackToBackBookings            bool     `json:"allow_back_to_back_bookings"`
	PresetMode                         string   `json:"preset_mode"`
}

type PreferencesResponse struct {
	EnablerID                          string   `json:"enabler_id"`
	WorkingDays                        []string `json:"working_days"`
	WorkStartTime                      string   `json:"work_start_time"`
	WorkEndTime                        string   `json:"work_end_time"`
	MaxHoursPerDay                     float64  `json:"max_hours_per_day"`
	MaxHoursPerWeek                    float64  `json:"max_hours_per_week"`
	MaxBookingsPerDay                  int      `json:"max_bookings_per_day"`
	MinimumBreakBetweenBookingsMinutes int      `json:"minimum_break_between_bookings_minutes"`
	AllowBackToBackBookings            bool     `json:"allow_back_to_back_bookings"`
	PresetMode                         string   `json:"preset_mode"`
}

// ===================== Share URL =====================

type ShareURLResponse struct {
	URL string `json:"url"`
}

// ===================== Mappers =====================

func ToCalendarEventResponse(e *entity.CalendarEvent) *CalendarEventResponse {
	resp := &CalendarEventResponse{
		ID:            e.ID.String(),
		EventType:     string(e.EventType),
		Title:         e.Title,
		Description:   e.Description,
		StartDatetime: e.StartDatetime,
		EndDatetime:   e.EndDatetime,
		Status:        string(e.Status),
		Color:         e.Color,
		IsAllDay:      e.IsAllDay,
	}
	if e.BookingID != nil {
		resp.BookingID = e.BookingID.String()
	}
	if e.EventID != nil {
		resp.EventID = e.EventID.String()
	}
	return resp
}

func ToRuleResponse(r *entity.AvailabilityRule) *RuleResponse {
	return &RuleResponse{
		ID:          r.ID.String(),
		RuleType:    string(r.RuleType),
		IsAvailable: r.IsAvailable,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

func ToPreferencesResponse(p *entity.CalendarPreferences) *PreferencesResponse {
	return &PreferencesResponse{
		EnablerID:                          p.EnablerID.String(),
		WorkingDays:                        p.WorkingDays,
		WorkStartTime:                      p.WorkStartTime,
		WorkEndTime:                        p.WorkEndTime,
		MaxHoursPerDay:                     p.MaxHoursPerDay,
		MaxHoursPerWeek:                    p.MaxHoursPerWeek,
		MaxBookingsPerDay:                  p.MaxBookingsPerDay,
		MinimumBreakBetweenBookingsMinutes: p.MinimumBreakBetweenBookingsMinutes,
		AllowBackToBackBookings:            p.AllowBackToBackBookings,
		PresetMode:                         p.PresetMode,
	}
}
