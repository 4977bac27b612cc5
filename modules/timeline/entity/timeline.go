package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

// TimelineItem is one scheduled segment of an event's run sheet,
// usually backed by a provider booking. Setup and teardown extend the
// interval the item actually occupies.
type TimelineItem struct {
	ID             string     `json:"id"`
	BookingID      *uuid.UUID `json:"booking_id,omitempty"`
	EnablerName    string     `json:"enabler_name"`
	Title          string     `json:"title"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   time.Time  `json:"scheduled_end"`
	SetupStart     *time.Time `json:"setup_start,omitempty"`
	TeardownEnd    *time.Time `json:"teardown_end,omitempty"`
}

// EffectiveStart is when the item begins occupying the venue.
func (i *TimelineItem) EffectiveStart() time.Time {
	if i.SetupStart != nil {
		return *i.SetupStart
	}
	return i.ScheduledStart
}

// EffectiveEnd is when the item stops occupying the venue.
func (i *TimelineItem) EffectiveEnd() time.Time {
	if i.TeardownEnd != nil {
		return *i.TeardownEnd
	}
	return i.ScheduledEnd
}

type TimelineItems []TimelineItem

func (t TimelineItems) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TimelineItems) Scan(value interface{}) error {
	if value == nil {
		*t = TimelineItems{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan timeline items: %v", value)
	}
	return json.Unmarshal(bytes, t)
}

// TimelineConflict records one overlapping pair of items.
type TimelineConflict struct {
	FirstItemID    string  `json:"first_item_id"`
	SecondItemID   string  `json:"second_item_id"`
	OverlapMinutes float64 `json:"overlap_minutes"`
	Message        string  `json:"message"`
}

type TimelineConflicts []TimelineConflict

func (t TimelineConflicts) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TimelineConflicts) Scan(value interface{}) error {
	if value == nil {
		*t = TimelineConflicts{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan timeline conflicts: %v", value)
	}
	return json.Unmarshal(bytes, t)
}

// TimelineSuggestion proposes moving one item to clear a conflict.
// Suggestions are advisory; items are never moved automatically.
type TimelineSuggestion struct {
	ItemID         string    `json:"item_id"`
	ShiftMinutes   float64   `json:"shift_minutes"`
	SuggestedStart time.Time `json:"suggested_start"`
	Message        string    `json:"message"`
}

type TimelineSuggestions []TimelineSuggestion

func (t TimelineSuggestions) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *TimelineSuggestions) Scan(value interface{}) error {
	if value == nil {
		*t = TimelineSuggestions{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan timeline suggestions: %v", value)
	}
	return json.Unmarshal(bytes, t)
}

// EventTimeline is the host-facing run sheet of a marketplace event.
// One row per event.
type EventTimeline struct {
	EventID                 uuid.UUID           `db:"event_id" json:"event_id"`
	Items                   TimelineItems       `db:"items" json:"items"`
	AIOptimized             bool                `db:"ai_optimized" json:"ai_optimized"`
	ConflictWarnings        TimelineConflicts   `db:"conflict_warnings" json:"conflict_warnings"`
	OptimizationSuggestions TimelineSuggestions `db:"optimization_suggestions" json:"optimization_suggestions"`
	LastSyncedAt            *time.Time          `db:"last_synced_at" json:"last_synced_at,omitempty"`
	entity.BaseEntity
}

func (EventTimeline) TableName() string {
	return "event_timelines"
}
