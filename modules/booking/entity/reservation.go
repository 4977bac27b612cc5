package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusHold      ReservationStatus = "HOLD"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusReleased  ReservationStatus = "RELEASED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
)

// Reservation is a temporary, time-boxed claim on a provider's slot placed
// by a host before full booking confirmation. Expiry is enforced outside
// this service.
type Reservation struct {
	EventID                uuid.UUID         `db:"event_id" json:"event_id"`
	EnablerID              uuid.UUID         `db:"enabler_id" json:"enabler_id"`
	SlotStart              time.Time         `db:"slot_start" json:"slot_start"`
	SlotEnd                time.Time         `db:"slot_end" json:"slot_end"`
	Status                 ReservationStatus `db:"status" json:"status"`
	ExpiresAt              time.Time         `db:"expires_at" json:"expires_at"`
	HoldCode               string            `db:"hold_code" json:"hold_code"`
	EnablerCalendarEventID *uuid.UUID        `db:"enabler_calendar_event_id" json:"enabler_calendar_event_id,omitempty"`
	entity.BaseEntity
}

func (Reservation) TableName() string {
	return "reservations"
}
