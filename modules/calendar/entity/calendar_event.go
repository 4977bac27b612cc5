package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

type CalendarEventType string

const (
	CalendarEventTypeBooking     CalendarEventType = "booking"
	CalendarEventTypeUnavailable CalendarEventType = "unavailable"
)

type CalendarEventStatus string

const (
	CalendarEventStatusPending    CalendarEventStatus = "pending"
	CalendarEventStatusConfirmed  CalendarEventStatus = "confirmed"
	CalendarEventStatusInSetup    CalendarEventStatus = "in_setup"
	CalendarEventStatusInProgress CalendarEventStatus = "in_progress"
	CalendarEventStatusCompleted  CalendarEventStatus = "completed"
	CalendarEventStatusCancelled  CalendarEventStatus = "cancelled"
)

// Display colors per status.
const (
	ColorPending    = "#fbbf24"
	ColorConfirmed  = "#10b981"
	ColorCompleted  = "#6b7280"
	ColorCancelled  = "#ef4444"
	ColorInProgress = "#8b5cf6"
	ColorDefault    = "#3b82f6"
)

// CalendarEvent is the single projection surface for a provider's schedule.
// BookingID points at the source commitment: a booking id or a reservation
// id. Manual unavailability blocks have no source.
type CalendarEvent struct {
	EnablerID     uuid.UUID           `db:"enabler_id" json:"enabler_id"`
	BookingID     *uuid.UUID          `db:"booking_id" json:"booking_id,omitempty"`
	EventID       *uuid.UUID          `db:"event_id" json:"event_id,omitempty"`
	EventType     CalendarEventType   `db:"event_type" json:"event_type"`
	Title         string              `db:"title" json:"title"`
	Description   string              `db:"description" json:"description"`
	StartDatetime time.Time           `db:"start_datetime" json:"start_datetime"`
	EndDatetime   time.Time           `db:"end_datetime" json:"end_datetime"`
	Status        CalendarEventStatus `db:"status" json:"status"`
	Color         string              `db:"color" json:"color"`
	IsAllDay      bool                `db:"is_all_day" json:"is_all_day"`
	entity.BaseEntity
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// StatusColor maps a calendar event status to its display color.
func StatusColor(status CalendarEventStatus) string {
	switch status {
	case CalendarEventStatusPending:
		return ColorPending
	case CalendarEventStatusConfirmed:
		return ColorConfirmed
	case CalendarEventStatusCompleted:
		return ColorCompleted
	case CalendarEventStatusCancelled:
		return ColorCancelled
	case CalendarEventStatusInProgress:
		return ColorInProgress
	default:
		return ColorDefault
	}
}
