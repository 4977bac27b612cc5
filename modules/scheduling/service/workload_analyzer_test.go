package service

import (
	"context"
	"math"
	"testing"
	"time"

	"blink-scheduler/core/clock"
	calendarentity "blink-scheduler/modules/calendar/entity"
	"blink-scheduler/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Wednesday inside the week starting Monday 2026-08-10.
var analysisNow = time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPeriodBounds(t *testing.T) {
	weekStart, weekEnd := periodBounds(analysisNow, entity.PeriodWeekly)
	if !weekStart.Equal(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly start should be Monday 00:00, got %v", weekStart)
	}
	if !weekEnd.Equal(weekStart.AddDate(0, 0, 7)) {
		t.Errorf("weekly period should span 7 days, got %v", weekEnd)
	}

	monthStart, monthEnd := periodBounds(analysisNow, entity.PeriodMonthly)
	if !monthStart.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly start should be the 1st, got %v", monthStart)
	}
	if !monthEnd.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly end should be the next 1st, got %v", monthEnd)
	}

	dayStart, dayEnd := periodBounds(analysisNow, entity.PeriodDaily)
	if !dayStart.Equal(analysisNow) || !dayEnd.Equal(analysisNow.Add(24*time.Hour)) {
		t.Errorf("daily period should run 24h from now, got %v to %v", dayStart, dayEnd)
	}

	// Monday maps to itself.
	monday := time.Date(2026, 8, 10, 15, 30, 0, 0, time.UTC)
	weekStart, _ = periodBounds(monday, entity.PeriodWeekly)
	if !weekStart.Equal(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("a Monday should stay in its own week, got %v", weekStart)
	}
}

func addWorkEvent(repo *fakeCalendarRepo, enablerID uuid.UUID, start, end time.Time, status calendarentity.CalendarEventStatus, eventType calendarentity.CalendarEventType) {
	event := calendarentity.CalendarEvent{
		EnablerID:     enablerID,
		EventType:     eventType,
		Title:         "Booking",
		StartDatetime: start,
		EndDatetime:   end,
		Status:        status,
	}
	event.ID = uuid.New()
	repo.events = append(repo.events, event)
}

func weeklyFixture(maxHoursPerWeek float64) (*fakeCalendarRepo, *fakeSchedulingRepo, uuid.UUID, *WorkloadAnalyzer) {
	calRepo := newFakeCalendarRepo()
	schedRepo := &fakeSchedulingRepo{}
	enablerID := uuid.New()

	monday := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	// Two back-to-back bookings on Monday, one on Tuesday.
	addWorkEvent(calRepo, enablerID, monday.Add(9*time.Hour), monday.Add(13*time.Hour),
		calendarentity.CalendarEventStatusConfirmed, calendarentity.CalendarEventTypeBooking)
	addWorkEvent(calRepo, enablerID, monday.Add(13*time.Hour), monday.Add(15*time.Hour),
		calendarentity.CalendarEventStatusConfirmed, calendarentity.CalendarEventTypeBooking)
	addWorkEvent(calRepo, enablerID, tuesday.Add(9*time.Hour), tuesday.Add(11*time.Hour),
		calendarentity.CalendarEventStatusConfirmed, calendarentity.CalendarEventTypeBooking)

	// Cancelled bookings and manual blocks must not count as work.
	addWorkEvent(calRepo, enablerID, tuesday.Add(12*time.Hour), tuesday.Add(14*time.Hour),
		calendarentity.CalendarEventStatusCancelled, calendarentity.CalendarEventTypeBooking)
	addWorkEvent(calRepo, enablerID, tuesday.Add(15*time.Hour), tuesday.Add(17*time.Hour),
		calendarentity.CalendarEventStatusConfirmed, calendarentity.CalendarEventTypeUnavailable)

	calRepo.prefs[enablerID] = &calendarentity.CalendarPreferences{
		EnablerID:                          enablerID,
		WorkingDays:                        pq.StringArray{"monday", "tuesday", "wednesday", "thursday", "friday"},
		MaxHoursPerWeek:                    maxHoursPerWeek,
		MaxHoursPerDay:                     8,
		MinimumBreakBetweenBookingsMinutes: 60,
	}

	analyzer := NewWorkloadAnalyzer(calRepo, schedRepo, nil, nil, clock.Fixed{Instant: analysisNow})
	return calRepo, schedRepo, enablerID, analyzer
}

func TestAnalyzeWorkloadMetrics(t *testing.T) {
	_, schedRepo, enablerID, analyzer := weeklyFixture(10)

	result, appErr := analyzer.AnalyzeWorkload(context.Background(), enablerID, entity.PeriodWeekly)
	if appErr != nil {
		t.Fatalf("AnalyzeWorkload failed: %v", appErr)
	}

	if !almostEqual(result.TotalHoursWorked, 8) {
		t.Errorf("total hours: got %.2f, want 8", result.TotalHoursWorked)
	}
	if result.TotalBookings != 3 {
		t.Errorf("total bookings: got %d, want 3", result.TotalBookings)
	}
	if !almostEqual(result.AverageBookingDuration, 160) {
		t.Errorf("average duration: got %.2f minutes, want 160", result.AverageBookingDuration)
	}
	if result.BusiestDay != "2026-08-10" {
		t.Errorf("busiest day: got %q, want 2026-08-10", result.BusiestDay)
	}
	if len(result.PeakPerformanceHours) != 2 || result.PeakPerformanceHours[0] != 9 || result.PeakPerformanceHours[1] != 13 {
		t.Errorf("peak hours: got %v, want [9 13]", result.PeakPerformanceHours)
	}
	if !almostEqual(result.WorkloadDensity, 0.8) {
		t.Errorf("density: got %.3f, want 0.8", result.WorkloadDensity)
	}
	if !almostEqual(result.BurnoutRisk, 0.5) {
		t.Errorf("burnout risk: got %.2f, want 0.5", result.BurnoutRisk)
	}
	// One back-to-back pair out of three bookings.
	if !almostEqual(result.RestCompliance, 1-1.0/3) {
		t.Errorf("rest compliance: got %.3f, want %.3f", result.RestCompliance, 1-1.0/3)
	}
	if len(result.Recommendations) != 2 {
		t.Errorf("expected busy + back-to-back recommendations, got %v", result.Recommendations)
	}

	if len(schedRepo.analytics) != 1 {
		t.Fatalf("analytics row not persisted")
	}

	// Re-running the same period replaces the row instead of stacking.
	if _, appErr := analyzer.AnalyzeWorkload(context.Background(), enablerID, entity.PeriodWeekly); appErr != nil {
		t.Fatalf("second run failed: %v", appErr)
	}
	if len(schedRepo.analytics) != 1 {
		t.Errorf("expected the analytics row to be upserted, got %d rows", len(schedRepo.analytics))
	}
}

func TestAnalyzeWorkloadBurnoutThresholds(t *testing.T) {
	// The fixture schedules 8 hours of confirmed work; the weekly cap
	// steers which density band the 8 hours land in.
	cases := []struct {
		name            string
		maxHoursPerWeek float64
		wantDensity     float64
		wantBurnout     float64
		wantCapacityRec bool
	}{
		{"over ninety percent", 8, 1.0, 0.8, true},
		{"over seventy percent", 10, 0.8, 0.5, true},
		{"comfortable", 16, 0.5, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, enablerID, analyzer := weeklyFixture(tc.maxHoursPerWeek)

			result, appErr := analyzer.AnalyzeWorkload(context.Background(), enablerID, entity.PeriodWeekly)
			if appErr != nil {
				t.Fatalf("AnalyzeWorkload failed: %v", appErr)
			}
			if !almostEqual(result.WorkloadDensity, tc.wantDensity) {
				t.Errorf("density: got %.3f, want %.3f", result.WorkloadDensity, tc.wantDensity)
			}
			if !almostEqual(result.BurnoutRisk, tc.wantBurnout) {
				t.Errorf("burnout risk: got %.2f, want %.2f", result.BurnoutRisk, tc.wantBurnout)
			}
			// The back-to-back recommendation is always present in this
			// fixture; a capacity warning joins it above the 0.7 band.
			wantRecs := 1
			if tc.wantCapacityRec {
				wantRecs = 2
			}
			if len(result.Recommendations) != wantRecs {
				t.Errorf("recommendations: got %v, want %d", result.Recommendations, wantRecs)
			}
		})
	}
}

func TestAnalyzeWorkloadEmptyPeriod(t *testing.T) {
	calRepo := newFakeCalendarRepo()
	analyzer := NewWorkloadAnalyzer(calRepo, &fakeSchedulingRepo{}, nil, nil, clock.Fixed{Instant: analysisNow})

	result, appErr := analyzer.AnalyzeWorkload(context.Background(), uuid.New(), entity.PeriodWeekly)
	if appErr != nil {
		t.Fatalf("AnalyzeWorkload failed: %v", appErr)
	}

	if result.TotalHoursWorked != 0 || result.TotalBookings != 0 {
		t.Errorf("empty period should have zero totals")
	}
	if !almostEqual(result.WorkloadDensity, 0) {
		t.Errorf("empty period density should be 0, got %.2f", result.WorkloadDensity)
	}
	if !almostEqual(result.RestCompliance, 1) {
		t.Errorf("empty period rest compliance should be 1, got %.2f", result.RestCompliance)
	}
}

func TestGenerateInsightsAndDedup(t *testing.T) {
	// 8 scheduled hours against an 8 hour cap pushes density to 1.0.
	_, schedRepo, enablerID, analyzer := weeklyFixture(8)

	created, appErr := analyzer.GenerateInsights(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("GenerateInsights failed: %v", appErr)
	}

	if len(created) != 3 {
		t.Fatalf("expected workload, rest and optimization insights, got %d", len(created))
	}
	types := map[string]string{}
	for _, insight := range created {
		types[insight.InsightType] = insight.Priority
		wantExpiry := analysisNow.AddDate(0, 0, 7)
		if !insight.ExpiresAt.Equal(wantExpiry) {
			t.Errorf("%s expiry: got %v, want %v", insight.InsightType, insight.ExpiresAt, wantExpiry)
		}
	}
	if types[string(entity.InsightWorkloadWarning)] != string(entity.PriorityHigh) {
		t.Errorf("workload warning should be high priority")
	}
	if types[string(entity.InsightRestSuggestion)] != string(entity.PriorityMedium) {
		t.Errorf("rest suggestion should be medium priority")
	}
	if types[string(entity.InsightOptimizationOpportunity)] != string(entity.PriorityLow) {
		t.Errorf("optimization opportunity should be low priority")
	}

	// Pending insights of the same type are not re-raised.
	again, appErr := analyzer.GenerateInsights(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("second GenerateInsights failed: %v", appErr)
	}
	if len(again) != 0 {
		t.Errorf("expected dedup to suppress repeats, got %d new insights", len(again))
	}
	if len(schedRepo.insights) != 3 {
		t.Errorf("insight rows duplicated: %d", len(schedRepo.insights))
	}

	// A dismissed insight clears the way for a fresh one.
	if appErr := analyzer.UpdateInsightStatus(context.Background(), enablerID, schedRepo.insights[0].ID, "dismissed"); appErr != nil {
		t.Fatalf("UpdateInsightStatus failed: %v", appErr)
	}
	third, appErr := analyzer.GenerateInsights(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("third GenerateInsights failed: %v", appErr)
	}
	if len(third) != 1 {
		t.Errorf("expected exactly the dismissed type to be re-raised, got %d", len(third))
	}
}
