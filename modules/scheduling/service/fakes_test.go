package service

import (
	"context"
	"time"

	calendarentity "blink-scheduler/modules/calendar/entity"
	"blink-scheduler/modules/scheduling/entity"

	"github.com/google/uuid"
)

type fakeCalendarRepo struct {
	events []calendarentity.CalendarEvent
	rules  []calendarentity.AvailabilityRule
	prefs  map[uuid.UUID]*calendarentity.CalendarPreferences
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{prefs: map[uuid.UUID]*calendarentity.CalendarPreferences{}}
}

func (f *fakeCalendarRepo) CreateEvent(_ context.Context, event *calendarentity.CalendarEvent) (*calendarentity.CalendarEvent, error) {
	saved := *event
	saved.ID = uuid.New()
	f.events = append(f.events, saved)
	return &saved, nil
}

func (f *fakeCalendarRepo) GetEventByID(_ context.Context, id uuid.UUID) (*calendarentity.CalendarEvent, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			copied := f.events[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetEventByBookingID(_ context.Context, bookingID uuid.UUID) (*calendarentity.CalendarEvent, error) {
	for i := range f.events {
		if f.events[i].BookingID != nil && *f.events[i].BookingID == bookingID {
			copied := f.events[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetEventsByEnabler(_ context.Context, enablerID uuid.UUID) ([]calendarentity.CalendarEvent, error) {
	var out []calendarentity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetEventsByEnablerInRange(_ context.Context, enablerID uuid.UUID, from, to time.Time) ([]calendarentity.CalendarEvent, error) {
	var out []calendarentity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID && !e.StartDatetime.Before(from) && e.StartDatetime.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetBookingLinkedEvents(_ context.Context, enablerID uuid.UUID) ([]calendarentity.CalendarEvent, error) {
	var out []calendarentity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID && e.BookingID != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) UpdateEvent(_ context.Context, event *calendarentity.CalendarEvent) error {
	for i := range f.events {
		if f.events[i].ID == event.ID {
			f.events[i] = *event
			return nil
		}
	}
	return nil
}

func (f *fakeCalendarRepo) CreateRule(_ context.Context, rule *calendarentity.AvailabilityRule) (*calendarentity.AvailabilityRule, error) {
	saved := *rule
	saved.ID = uuid.New()
	f.rules = append(f.rules, saved)
	return &saved, nil
}

func (f *fakeCalendarRepo) GetRulesByEnabler(_ context.Context, enablerID uuid.UUID) ([]calendarentity.AvailabilityRule, error) {
	var out []calendarentity.AvailabilityRule
	for _, r := range f.rules {
		if r.EnablerID == enablerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetBlackoutRules(_ context.Context, enablerID uuid.UUID) ([]calendarentity.AvailabilityRule, error) {
	var out []calendarentity.AvailabilityRule
	for _, r := range f.rules {
		if r.EnablerID == enablerID && r.RuleType == calendarentity.RuleTypeBlackout && !r.IsAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) DeleteRule(_ context.Context, enablerID, ruleID uuid.UUID) error {
	for i := range f.rules {
		if f.rules[i].ID == ruleID && f.rules[i].EnablerID == enablerID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCalendarRepo) GetPreferencesByEnabler(_ context.Context, enablerID uuid.UUID) (*calendarentity.CalendarPreferences, error) {
	return f.prefs[enablerID], nil
}

func (f *fakeCalendarRepo) UpsertPreferences(_ context.Context, prefs *calendarentity.CalendarPreferences) (*calendarentity.CalendarPreferences, error) {
	saved := *prefs
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	f.prefs[prefs.EnablerID] = &saved
	return &saved, nil
}

func (f *fakeCalendarRepo) ListEnablerIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range f.prefs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeSchedulingRepo struct {
	analytics []entity.WorkloadAnalytics
	insights  []entity.SchedulingInsight
}

func (f *fakeSchedulingRepo) UpsertAnalytics(_ context.Context, analytics *entity.WorkloadAnalytics) (*entity.WorkloadAnalytics, error) {
	for i := range f.analytics {
		a := &f.analytics[i]
		if a.EnablerID == analytics.EnablerID && a.AnalysisPeriod == analytics.AnalysisPeriod && a.PeriodStart.Equal(analytics.PeriodStart) {
			id := a.ID
			*a = *analytics
			a.ID = id
			copied := *a
			return &copied, nil
		}
	}
	saved := *analytics
	saved.ID = uuid.New()
	f.analytics = append(f.analytics, saved)
	return &saved, nil
}

func (f *fakeSchedulingRepo) GetLatestAnalytics(_ context.Context, enablerID uuid.UUID, period entity.AnalysisPeriod) (*entity.WorkloadAnalytics, error) {
	var latest *entity.WorkloadAnalytics
	for i := range f.analytics {
		a := &f.analytics[i]
		if a.EnablerID != enablerID || a.AnalysisPeriod != period {
			continue
		}
		if latest == nil || a.PeriodStart.After(latest.PeriodStart) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeSchedulingRepo) CreateInsight(_ context.Context, insight *entity.SchedulingInsight) (*entity.SchedulingInsight, error) {
	saved := *insight
	saved.ID = uuid.New()
	f.insights = append(f.insights, saved)
	return &saved, nil
}

func (f *fakeSchedulingRepo) HasPendingInsight(_ context.Context, enablerID uuid.UUID, insightType entity.InsightType) (bool, error) {
	for _, i := range f.insights {
		if i.EnablerID == enablerID && i.InsightType == insightType && i.Status == entity.InsightStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSchedulingRepo) GetInsightsByEnabler(_ context.Context, enablerID uuid.UUID, status entity.InsightStatus) ([]entity.SchedulingInsight, error) {
	var out []entity.SchedulingInsight
	for _, i := range f.insights {
		if i.EnablerID == enablerID && (status == "" || i.Status == status) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeSchedulingRepo) UpdateInsightStatus(_ context.Context, enablerID, insightID uuid.UUID, status entity.InsightStatus) error {
	for i := range f.insights {
		if f.insights[i].ID == insightID && f.insights[i].EnablerID == enablerID {
			f.insights[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeSchedulingRepo) ExpireInsights(_ context.Context, now time.Time) error {
	for i := range f.insights {
		if f.insights[i].Status == entity.InsightStatusPending && f.insights[i].ExpiresAt.Before(now) {
			f.insights[i].Status = entity.InsightStatusExpired
		}
	}
	return nil
}
