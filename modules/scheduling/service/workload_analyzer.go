package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/constants"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/storage"
	"blink-scheduler/core/timeutil"
	calendarentity "blink-scheduler/modules/calendar/entity"
	calendarrepo "blink-scheduler/modules/calendar/repository"
	"blink-scheduler/modules/scheduling/dto"
	"blink-scheduler/modules/scheduling/entity"
	"blink-scheduler/modules/scheduling/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	workloadSnapshotTTL = time.Hour
	peakHoursLimit      = 3
	dateLayout          = "2006-01-02"
)

// SnapshotCache is the slice of the redis surface the analyzer uses to
// serve repeated reads without recomputing.
type SnapshotCache interface {
	SetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, snapshot any, ttl time.Duration) error
	GetWorkloadSnapshot(ctx context.Context, enablerID uuid.UUID, period string, dest any) (bool, error)
}

type WorkloadAnalyzerInterface interface {
	AnalyzeWorkload(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.WorkloadAnalyticsResponse, *errors.AppError)
	GetWorkload(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.WorkloadAnalyticsResponse, *errors.AppError)
	GenerateInsights(ctx context.Context, enablerID uuid.UUID) ([]dto.InsightResponse, *errors.AppError)
	GetInsights(ctx context.Context, enablerID uuid.UUID, status string) ([]dto.InsightResponse, *errors.AppError)
	UpdateInsightStatus(ctx context.Context, enablerID, insightID uuid.UUID, status string) *errors.AppError
	ExpireInsights(ctx context.Context) *errors.AppError
	ExportReport(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.ReportExportResponse, *errors.AppError)
}

// WorkloadAnalyzer derives workload metrics and insights from the
// calendar projection. Snapshots and the report store are optional;
// a nil value disables that path.
type WorkloadAnalyzer struct {
	calendarRepo calendarrepo.CalendarRepositoryInterface
	repo         repository.SchedulingRepositoryInterface
	snapshots    SnapshotCache
	store        storage.ObjectStorage
	clk          clock.Clock
}

func NewWorkloadAnalyzer(
	calendarRepo calendarrepo.CalendarRepositoryInterface,
	repo repository.SchedulingRepositoryInterface,
	snapshots SnapshotCache,
	store storage.ObjectStorage,
	clk clock.Clock,
) *WorkloadAnalyzer {
	return &WorkloadAnalyzer{
		calendarRepo: calendarRepo,
		repo:         repo,
		snapshots:    snapshots,
		store:        store,
		clk:          clk,
	}
}

// periodBounds resolves an analysis period to a concrete interval.
// Weeks start on Monday 00:00 UTC; days run from the current instant.
func periodBounds(now time.Time, period entity.AnalysisPeriod) (time.Time, time.Time) {
	now = now.UTC()
	switch period {
	case entity.PeriodWeekly:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -daysSinceMonday)
		return start, start.AddDate(0, 0, 7)
	case entity.PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		return now, now.Add(24 * time.Hour)
	}
}

func capacityHours(prefs *calendarentity.CalendarPreferences, period entity.AnalysisPeriod) float64 {
	if prefs == nil {
		return 0
	}
	switch period {
	case entity.PeriodWeekly:
		return prefs.MaxHoursPerWeek
	case entity.PeriodMonthly:
		return prefs.MaxHoursPerWeek * 4
	default:
		return prefs.MaxHoursPerDay
	}
}

// AnalyzeWorkload recomputes the metrics for the enabler's current
// period from scratch and upserts the resulting row.
func (s *WorkloadAnalyzer) AnalyzeWorkload(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.WorkloadAnalyticsResponse, *errors.AppError) {
	if period == "" {
		period = entity.PeriodWeekly
	}
	logger.Info("WorkloadAnalyzer:AnalyzeWorkload:Start", "enabler_id", enablerID, "period", period)

	now := s.clk.Now()
	periodStart, periodEnd := periodBounds(now, period)

	all, err := s.calendarRepo.GetEventsByEnablerInRange(ctx, enablerID, periodStart, periodEnd)
	if err != nil {
		logger.Error("WorkloadAnalyzer:AnalyzeWorkload:Events:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar events", err.Error())
	}

	// Cancelled events and manual unavailability blocks are not work.
	events := make([]calendarentity.CalendarEvent, 0, len(all))
	for _, e := range all {
		if e.Status == calendarentity.CalendarEventStatusCancelled {
			continue
		}
		if e.EventType != calendarentity.CalendarEventTypeBooking {
			continue
		}
		events = append(events, e)
	}

	prefs, err := s.calendarRepo.GetPreferencesByEnabler(ctx, enablerID)
	if err != nil {
		logger.Error("WorkloadAnalyzer:AnalyzeWorkload:Preferences:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load calendar preferences", err.Error())
	}

	analytics := s.computeMetrics(enablerID, period, periodStart, periodEnd, events, prefs)

	saved, err := s.repo.UpsertAnalytics(ctx, analytics)
	if err != nil {
		logger.Error("WorkloadAnalyzer:AnalyzeWorkload:Upsert:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save workload analytics", err.Error())
	}

	response := dto.ToWorkloadAnalyticsResponse(saved)
	if s.snapshots != nil {
		if err := s.snapshots.SetWorkloadSnapshot(ctx, enablerID, string(period), response, workloadSnapshotTTL); err != nil {
			logger.Warn("WorkloadAnalyzer:AnalyzeWorkload:Snapshot:Error", "enabler_id", enablerID, "error", err)
		}
	}

	logger.Info("WorkloadAnalyzer:AnalyzeWorkload:Success",
		"enabler_id", enablerID,
		"total_hours", analytics.TotalHoursWorked,
		"density", analytics.WorkloadDensity,
	)
	return response, nil
}

func (s *WorkloadAnalyzer) computeMetrics(
	enablerID uuid.UUID,
	period entity.AnalysisPeriod,
	periodStart, periodEnd time.Time,
	events []calendarentity.CalendarEvent,
	prefs *calendarentity.CalendarPreferences,
) *entity.WorkloadAnalytics {
	analytics := &entity.WorkloadAnalytics{
		EnablerID:            enablerID,
		AnalysisPeriod:       period,
		PeriodStart:          periodStart,
		PeriodEnd:            periodEnd,
		PeakPerformanceHours: pq.Int64Array{},
		Recommendations:      pq.StringArray{},
		RestCompliance:       1.0,
	}
	if len(events) == 0 {
		return analytics
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDatetime.Before(events[j].StartDatetime)
	})

	hoursByDay := map[string]float64{}
	countByHour := map[int]int{}
	totalHours := 0.0
	for _, e := range events {
		h := timeutil.DurationHours(e.StartDatetime, e.EndDatetime)
		totalHours += h
		hoursByDay[e.StartDatetime.UTC().Format(dateLayout)] += h
		countByHour[e.StartDatetime.UTC().Hour()]++
	}

	analytics.TotalHoursWorked = totalHours
	analytics.TotalBookings = len(events)
	analytics.AverageBookingDuration = totalHours * 60 / float64(len(events))
	analytics.BusiestDay = busiestDay(hoursByDay)
	analytics.PeakPerformanceHours = peakHours(countByHour)

	capacity := capacityHours(prefs, period)
	if capacity > 0 {
		analytics.WorkloadDensity = totalHours / capacity
	}
	switch {
	case analytics.WorkloadDensity > 0.9:
		analytics.BurnoutRisk = 0.8
		analytics.Recommendations = append(analytics.Recommendations,
			"You are approaching your maximum capacity. Consider declining new bookings this period.")
	case analytics.WorkloadDensity > 0.7:
		analytics.BurnoutRisk = 0.5
		analytics.Recommendations = append(analytics.Recommendations,
			"Your schedule is busy. Make sure to schedule breaks between bookings.")
	}

	if prefs != nil && prefs.MinimumBreakBetweenBookingsMinutes > 0 {
		backToBack := 0
		for i := 1; i < len(events); i++ {
			gap := timeutil.GapMinutes(events[i-1].EndDatetime, events[i].StartDatetime)
			if gap < float64(prefs.MinimumBreakBetweenBookingsMinutes) {
				backToBack++
			}
		}
		if backToBack > 0 {
			analytics.RestCompliance = 1 - float64(backToBack)/float64(len(events))
			if analytics.RestCompliance < 0 {
				analytics.RestCompliance = 0
			}
			analytics.Recommendations = append(analytics.Recommendations,
				fmt.Sprintf("You have %d back-to-back bookings with less than your minimum break. Consider spacing them out.", backToBack))
		}
	}

	return analytics
}

// busiestDay returns the date with the most scheduled hours. Ties go to
// the earliest date, so repeated runs over the same data agree.
func busiestDay(hoursByDay map[string]float64) string {
	days := make([]string, 0, len(hoursByDay))
	for d := range hoursByDay {
		days = append(days, d)
	}
	sort.Strings(days)

	best := ""
	bestHours := 0.0
	for _, d := range days {
		if hoursByDay[d] > bestHours {
			best = d
			bestHours = hoursByDay[d]
		}
	}
	return best
}

// peakHours returns up to three start hours ranked by booking count,
// lower hour first on equal counts.
func peakHours(countByHour map[int]int) pq.Int64Array {
	hours := make([]int, 0, len(countByHour))
	for h := range countByHour {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if countByHour[hours[i]] != countByHour[hours[j]] {
			return countByHour[hours[i]] > countByHour[hours[j]]
		}
		return hours[i] < hours[j]
	})

	if len(hours) > peakHoursLimit {
		hours = hours[:peakHoursLimit]
	}
	peak := make(pq.Int64Array, 0, len(hours))
	for _, h := range hours {
		peak = append(peak, int64(h))
	}
	return peak
}

// GetWorkload serves the cached snapshot when present, falling back to
// the latest stored row, and finally to a fresh analysis.
func (s *WorkloadAnalyzer) GetWorkload(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.WorkloadAnalyticsResponse, *errors.AppError) {
	if period == "" {
		period = entity.PeriodWeekly
	}

	if s.snapshots != nil {
		var cached dto.WorkloadAnalyticsResponse
		found, err := s.snapshots.GetWorkloadSnapshot(ctx, enablerID, string(period), &cached)
		if err != nil {
			logger.Warn("WorkloadAnalyzer:GetWorkload:Snapshot:Error", "enabler_id", enablerID, "error", err)
		} else if found {
			return &cached, nil
		}
	}

	latest, err := s.repo.GetLatestAnalytics(ctx, enablerID, period)
	if err != nil {
		logger.Error("WorkloadAnalyzer:GetWorkload:Latest:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load workload analytics", err.Error())
	}
	if latest != nil {
		return dto.ToWorkloadAnalyticsResponse(latest), nil
	}

	return s.AnalyzeWorkload(ctx, enablerID, period)
}

// GenerateInsights derives insight rows from the current weekly metrics.
// An insight type with a pending row is not re-raised.
func (s *WorkloadAnalyzer) GenerateInsights(ctx context.Context, enablerID uuid.UUID) ([]dto.InsightResponse, *errors.AppError) {
	logger.Info("WorkloadAnalyzer:GenerateInsights:Start", "enabler_id", enablerID)

	workload, appErr := s.AnalyzeWorkload(ctx, enablerID, entity.PeriodWeekly)
	if appErr != nil {
		return nil, appErr
	}

	expiresAt := s.clk.Now().AddDate(0, 0, constants.InsightTTLDays)
	candidates := []entity.SchedulingInsight{}

	if workload.WorkloadDensity > 0.85 {
		candidates = append(candidates, entity.SchedulingInsight{
			EnablerID:       enablerID,
			InsightType:     entity.InsightWorkloadWarning,
			Title:           "High workload detected",
			Message:         fmt.Sprintf("Your schedule is at %.0f%% of your weekly capacity.", workload.WorkloadDensity*100),
			ConfidenceScore: 0.9,
			SuggestedAction: "Review upcoming bookings and consider blocking recovery time.",
			Priority:        entity.PriorityHigh,
			Status:          entity.InsightStatusPending,
			ExpiresAt:       expiresAt,
		})
	}
	if workload.RestCompliance < 0.7 {
		candidates = append(candidates, entity.SchedulingInsight{
			EnablerID:       enablerID,
			InsightType:     entity.InsightRestSuggestion,
			Title:           "Insufficient breaks between bookings",
			Message:         "Most of your bookings run back to back. Short breaks keep quality up over a long day.",
			ConfidenceScore: 0.85,
			SuggestedAction: "Add buffer time between consecutive bookings.",
			Priority:        entity.PriorityMedium,
			Status:          entity.InsightStatusPending,
			ExpiresAt:       expiresAt,
		})
	}
	if len(workload.PeakPerformanceHours) > 0 {
		candidates = append(candidates, entity.SchedulingInsight{
			EnablerID:       enablerID,
			InsightType:     entity.InsightOptimizationOpportunity,
			Title:           "Peak performance hours identified",
			Message:         fmt.Sprintf("Most of your bookings start around %s. Consider opening more availability there.", formatHours(workload.PeakPerformanceHours)),
			ConfidenceScore: 0.75,
			SuggestedAction: "Adjust your working hours to match demand.",
			Priority:        entity.PriorityLow,
			Status:          entity.InsightStatusPending,
			ExpiresAt:       expiresAt,
		})
	}

	created := []dto.InsightResponse{}
	for _, candidate := range candidates {
		pending, err := s.repo.HasPendingInsight(ctx, enablerID, candidate.InsightType)
		if err != nil {
			logger.Error("WorkloadAnalyzer:GenerateInsights:Dedup:Error", "enabler_id", enablerID, "insight_type", candidate.InsightType, "error", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing insights", err.Error())
		}
		if pending {
			continue
		}

		saved, err := s.repo.CreateInsight(ctx, &candidate)
		if err != nil {
			logger.Error("WorkloadAnalyzer:GenerateInsights:Create:Error", "enabler_id", enablerID, "insight_type", candidate.InsightType, "error", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create insight", err.Error())
		}
		created = append(created, *dto.ToInsightResponse(saved))
	}

	logger.Info("WorkloadAnalyzer:GenerateInsights:Success", "enabler_id", enablerID, "created", len(created))
	return created, nil
}

func formatHours(hours []int) string {
	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00", h))
	}
	return strings.Join(parts, ", ")
}

func (s *WorkloadAnalyzer) GetInsights(ctx context.Context, enablerID uuid.UUID, status string) ([]dto.InsightResponse, *errors.AppError) {
	insights, err := s.repo.GetInsightsByEnabler(ctx, enablerID, entity.InsightStatus(status))
	if err != nil {
		logger.Error("WorkloadAnalyzer:GetInsights:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load insights", err.Error())
	}

	responses := make([]dto.InsightResponse, 0, len(insights))
	for i := range insights {
		responses = append(responses, *dto.ToInsightResponse(&insights[i]))
	}
	return responses, nil
}

func (s *WorkloadAnalyzer) UpdateInsightStatus(ctx context.Context, enablerID, insightID uuid.UUID, status string) *errors.AppError {
	switch entity.InsightStatus(status) {
	case entity.InsightStatusAcknowledged, entity.InsightStatusDismissed:
	default:
		return errors.NewAppError(errors.ErrInvalidInput, "Status must be acknowledged or dismissed", nil)
	}

	if err := s.repo.UpdateInsightStatus(ctx, enablerID, insightID, entity.InsightStatus(status)); err != nil {
		logger.Error("WorkloadAnalyzer:UpdateInsightStatus:Error", "insight_id", insightID, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to update insight", err.Error())
	}
	return nil
}

// ExpireInsights marks pending insights past their expiry. Run from the
// background analytics sweep.
func (s *WorkloadAnalyzer) ExpireInsights(ctx context.Context) *errors.AppError {
	if err := s.repo.ExpireInsights(ctx, s.clk.Now()); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to expire insights", err.Error())
	}
	return nil
}

// ExportReport archives the current workload metrics as a JSON object.
func (s *WorkloadAnalyzer) ExportReport(ctx context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*dto.ReportExportResponse, *errors.AppError) {
	if s.store == nil {
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Report export is not enabled", nil)
	}

	workload, appErr := s.AnalyzeWorkload(ctx, enablerID, period)
	if appErr != nil {
		return nil, appErr
	}

	body, err := json.MarshalIndent(workload, "", "  ")
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode report", err.Error())
	}

	key := fmt.Sprintf("reports/workload/%s/%s-%s.json",
		enablerID, workload.AnalysisPeriod, workload.PeriodStart.Format(dateLayout))
	if err := s.store.Put(ctx, key, "application/json", body); err != nil {
		logger.Error("WorkloadAnalyzer:ExportReport:Error", "enabler_id", enablerID, "key", key, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to upload report", err.Error())
	}

	logger.Info("WorkloadAnalyzer:ExportReport:Success", "enabler_id", enablerID, "key", key)
	return &dto.ReportExportResponse{
		Key:        key,
		ExportedAt: s.clk.Now(),
	}, nil
}
