package dto

import (
	"time"

	"blink-scheduler/modules/scheduling/entity"

	"github.com/google/uuid"
)

// ===================== Conflict detection =====================

type ConflictCheckRequest struct {
	StartDatetime time.Time `json:"start_datetime" validate:"required"`
	EndDatetime   time.Time `json:"end_datetime" validate:"required"`
}

type Conflict struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	EventID    string `json:"event_id,omitempty"`
	EventTitle string `json:"event_title,omitempty"`
}

type ConflictCheckResponse struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
}

// ===================== Workload analytics =====================

type WorkloadAnalyticsResponse struct {
	ID                     uuid.UUID `json:"id"`
	EnablerID              uuid.UUID `json:"enabler_id"`
	AnalysisPeriod         string    `json:"analysis_period"`
	PeriodStart            time.Time `json:"period_start"`
	PeriodEnd              time.Time `json:"period_end"`
	TotalHoursWorked       float64   `json:"total_hours_worked"`
	TotalBookings          int       `json:"total_bookings"`
	AverageBookingDuration float64   `json:"average_booking_duration"`
	BusiestDay             string    `json:"busiest_day,omitempty"`
	PeakPerformanceHours   []int     `json:"peak_performance_hours"`
	WorkloadDensity        float64   `json:"workload_density"`
	BurnoutRisk            float64   `json:"burnout_risk"`
	RestCompliance         float64   `json:"rest_compliance"`
	Recommendations        []string  `json:"recommendations"`
	GeneratedAt            time.Time `json:"generated_at"`
}

func ToWorkloadAnalyticsResponse(a *entity.WorkloadAnalytics) *WorkloadAnalyticsResponse {
	peakHours := make([]int, 0, len(a.PeakPerformanceHours))
	for _, h := range a.PeakPerformanceHours {
		peakHours = append(peakHours, int(h))
	}

	return &WorkloadAnalyticsResponse{
		ID:                     a.ID,
		EnablerID:              a.EnablerID,
		AnalysisPeriod:         string(a.AnalysisPeriod),
		PeriodStart:            a.PeriodStart,
		PeriodEnd:              a.PeriodEnd,
		TotalHoursWorked:       a.TotalHoursWorked,
		TotalBookings:          a.TotalBookings,
		AverageBookingDuration: a.AverageBookingDuration,
		BusiestDay:             a.BusiestDay,
		PeakPerformanceHours:   peakHours,
		WorkloadDensity:        a.WorkloadDensity,
		BurnoutRisk:            a.BurnoutRisk,
		RestCompliance:         a.RestCompliance,
		Recommendations:        []string(a.Recommendations),
		GeneratedAt:            a.UpdatedAt,
	}
}

// ===================== Insights =====================

type InsightResponse struct {
	ID              uuid.UUID `json:"id"`
	EnablerID       uuid.UUID `json:"enabler_id"`
	InsightType     string    `json:"insight_type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	ConfidenceScore float64   `json:"confidence_score"`
	SuggestedAction string    `json:"suggested_action,omitempty"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func ToInsightResponse(insight *entity.SchedulingInsight) *InsightResponse {
	return &InsightResponse{
		ID:              insight.ID,
		EnablerID:       insight.EnablerID,
		InsightType:     string(insight.InsightType),
		Title:           insight.Title,
		Message:         insight.Message,
		ConfidenceScore: insight.ConfidenceScore,
		SuggestedAction: insight.SuggestedAction,
		Priority:        string(insight.Priority),
		Status:          string(insight.Status),
		ExpiresAt:       insight.ExpiresAt,
		CreatedAt:       insight.CreatedAt,
	}
}

type UpdateInsightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=acknowledged dismissed"`
}

// ===================== Report export =====================

type ReportExportResponse struct {
	Key        string    `json:"key"`
	ExportedAt time.Time `json:"exported_at"`
}
