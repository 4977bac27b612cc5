package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

// Event is the host-side marketplace event a booking points at. This
// service only reads it, best effort, to title and date calendar
// projections.
type Event struct {
	HostID    *uuid.UUID `db:"host_id" json:"host_id,omitempty"`
	Title     string     `db:"title" json:"title"`
	EventDate *time.Time `db:"event_date" json:"event_date,omitempty"`
	Location  *string    `db:"location" json:"location,omitempty"`
	entity.BaseEntity
}

func (Event) TableName() string {
	return "events"
}
