package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

type RuleType string

const (
	RuleTypeBlackout  RuleType = "blackout"
	RuleTypeRecurring RuleType = "recurring"
)

// AvailabilityRule is a provider-declared constraint on their calendar.
// Consulted by conflict detection, never mutated by it.
type AvailabilityRule struct {
	EnablerID   uuid.UUID `db:"enabler_id" json:"enabler_id"`
	RuleType    RuleType  `db:"rule_type" json:"rule_type"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	entity.BaseEntity
}

func (AvailabilityRule) TableName() string {
	return "availability_rules"
}
