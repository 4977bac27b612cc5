package entity

import (
	"strings"
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CalendarPreferences is the per-provider working configuration. One row
// per enabler; this service only reads it.
type CalendarPreferences struct {
	EnablerID                          uuid.UUID      `db:"enabler_id" json:"enabler_id"`
	WorkingDays                        pq.StringArray `db:"working_days" json:"working_days"`
	WorkStartTime                      string         `db:"work_start_time" json:"work_start_time"`
	WorkEndTime                        string         `db:"work_end_time" json:"work_end_time"`
	MaxHoursPerDay                     float64        `db:"max_hours_per_day" json:"max_hours_per_day"`
	MaxHoursPerWeek                    float64        `db:"max_hours_per_week" json:"max_hours_per_week"`
	MaxBookingsPerDay                  int            `db:"max_bookings_per_day" json:"max_bookings_per_day"`
	MinimumBreakBetweenBookingsMinutes int            `db:"minimum_break_between_bookings_minutes" json:"minimum_break_between_bookings_minutes"`
	AllowBackToBackBookings            bool           `db:"allow_back_to_back_bookings" json:"allow_back_to_back_bookings"`
	PresetMode                         string         `db:"preset_mode" json:"preset_mode"`
	entity.BaseEntity
}

func (CalendarPreferences) TableName() string {
	return "calendar_preferences"
}

// IsWorkingDay reports whether the weekday is in the provider's working
// days. Stored values are lowercase English day names.
func (p *CalendarPreferences) IsWorkingDay(weekday time.Weekday) bool {
	name := strings.ToLower(weekday.String())
	for _, d := range p.WorkingDays {
		if strings.ToLower(d) == name {
			return true
		}
	}
	return false
}
