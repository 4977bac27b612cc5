package entity

import (
	"time"

	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

type InsightType string

const (
	InsightWorkloadWarning         InsightType = "workload_warning"
	InsightRestSuggestion          InsightType = "rest_suggestion"
	InsightOptimizationOpportunity InsightType = "optimization_opportunity"
)

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

type InsightStatus string

const (
	InsightStatusPending      InsightStatus = "pending"
	InsightStatusAcknowledged InsightStatus = "acknowledged"
	InsightStatusDismissed    InsightStatus = "dismissed"
	InsightStatusExpired      InsightStatus = "expired"
)

type SchedulingInsight struct {
	EnablerID       uuid.UUID       `db:"enabler_id" json:"enabler_id"`
	InsightType     InsightType     `db:"insight_type" json:"insight_type"`
	Title           string          `db:"title" json:"title"`
	Message         string          `db:"message" json:"message"`
	ConfidenceScore float64         `db:"confidence_score" json:"confidence_score"`
	SuggestedAction string          `db:"suggested_action" json:"suggested_action"`
	Priority        InsightPriority `db:"priority" json:"priority"`
	Status          InsightStatus   `db:"status" json:"status"`
	ExpiresAt       time.Time       `db:"expires_at" json:"expires_at"`
	entity.BaseEntity
}

func (SchedulingInsight) TableName() string {
	return "scheduling_insights"
}
