package service

import (
	"context"
	"testing"
	"time"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/errors"
	"blink-scheduler/modules/timeline/dto"
	"blink-scheduler/modules/timeline/entity"

	"github.com/google/uuid"
)

type fakeTimelineRepo struct {
	timelines map[uuid.UUID]*entity.EventTimeline
}

func newFakeTimelineRepo() *fakeTimelineRepo {
	return &fakeTimelineRepo{timelines: map[uuid.UUID]*entity.EventTimeline{}}
}

func (f *fakeTimelineRepo) GetTimelineByEventID(_ context.Context, eventID uuid.UUID) (*entity.EventTimeline, error) {
	timeline, ok := f.timelines[eventID]
	if !ok {
		return nil, nil
	}
	copied := *timeline
	return &copied, nil
}

func (f *fakeTimelineRepo) UpsertTimeline(_ context.Context, timeline *entity.EventTimeline) (*entity.EventTimeline, error) {
	saved := *timeline
	if existing, ok := f.timelines[timeline.EventID]; ok {
		saved.ID = existing.ID
	} else {
		saved.ID = uuid.New()
	}
	f.timelines[timeline.EventID] = &saved
	copied := saved
	return &copied, nil
}

func (f *fakeTimelineRepo) UpdateTimelineAnalysis(_ context.Context, eventID uuid.UUID, conflicts entity.TimelineConflicts, suggestions entity.TimelineSuggestions, syncedAt time.Time) error {
	timeline, ok := f.timelines[eventID]
	if !ok {
		return nil
	}
	timeline.AIOptimized = true
	timeline.ConflictWarnings = conflicts
	timeline.OptimizationSuggestions = suggestions
	synced := syncedAt
	timeline.LastSyncedAt = &synced
	return nil
}

var timelineNow = time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)

func newTimelineFixture() (*fakeTimelineRepo, TimelineServiceInterface) {
	repo := newFakeTimelineRepo()
	return repo, NewTimelineService(repo, clock.Fixed{Instant: timelineNow})
}

func ptr(t time.Time) *time.Time { return &t }

func TestAnalyzeTimelineSuggestsShiftWithBuffer(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			{ID: "band", EnablerName: "The Quartet", Title: "Live set",
				ScheduledStart: base, ScheduledEnd: base.Add(2 * time.Hour)},
			// Starts 30 minutes before the band finishes.
			{ID: "dj", EnablerName: "DJ Nova", Title: "DJ set",
				ScheduledStart: base.Add(90 * time.Minute), ScheduledEnd: base.Add(4 * time.Hour)},
		},
	}

	result, appErr := svc.AnalyzeTimeline(context.Background(), eventID)
	if appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result.Conflicts))
	}
	conflict := result.Conflicts[0]
	if conflict.FirstItemID != "band" || conflict.SecondItemID != "dj" {
		t.Errorf("conflict pair wrong: %s vs %s", conflict.FirstItemID, conflict.SecondItemID)
	}
	if conflict.OverlapMinutes != 30 {
		t.Errorf("overlap: got %.0f minutes, want 30", conflict.OverlapMinutes)
	}

	if len(result.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(result.Suggestions))
	}
	suggestion := result.Suggestions[0]
	if suggestion.ItemID != "dj" {
		t.Errorf("the later item should move, got %s", suggestion.ItemID)
	}
	// 30 minute overlap plus the 15 minute buffer.
	if suggestion.ShiftMinutes != 45 {
		t.Errorf("shift: got %.0f minutes, want 45", suggestion.ShiftMinutes)
	}
	wantStart := base.Add(90 * time.Minute).Add(45 * time.Minute)
	if !suggestion.SuggestedStart.Equal(wantStart) {
		t.Errorf("suggested start: got %v, want %v", suggestion.SuggestedStart, wantStart)
	}

	// Analysis is advisory: the saved items are untouched.
	saved := repo.timelines[eventID]
	if !saved.Items[1].ScheduledStart.Equal(base.Add(90 * time.Minute)) {
		t.Errorf("analysis must not move items")
	}
	if saved.LastSyncedAt == nil || !saved.LastSyncedAt.Equal(timelineNow) {
		t.Errorf("last_synced_at not stamped")
	}
	if !saved.AIOptimized {
		t.Errorf("analysis should mark the timeline as optimized")
	}
}

func TestAnalyzeTimelineContainedItemShiftsClear(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			{ID: "headliner", Title: "Headline set",
				ScheduledStart: base, ScheduledEnd: base.Add(4 * time.Hour)},
			// Sits entirely inside the headline set.
			{ID: "speech", Title: "Toast",
				ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(2 * time.Hour)},
		},
	}

	result, appErr := svc.AnalyzeTimeline(context.Background(), eventID)
	if appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}

	if len(result.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(result.Suggestions))
	}
	suggestion := result.Suggestions[0]
	// 13:00 through the 16:00 end of the headliner, plus the buffer. A
	// shift of only the intersection would leave the toast still inside
	// the headline set.
	if suggestion.ShiftMinutes != 195 {
		t.Errorf("shift: got %.0f minutes, want 195", suggestion.ShiftMinutes)
	}
	wantStart := base.Add(time.Hour).Add(195 * time.Minute)
	if !suggestion.SuggestedStart.Equal(wantStart) {
		t.Errorf("suggested start: got %v, want %v", suggestion.SuggestedStart, wantStart)
	}
	if !suggestion.SuggestedStart.After(base.Add(4 * time.Hour)) {
		t.Errorf("suggested start %v does not clear the headline set", suggestion.SuggestedStart)
	}
}

func TestAnalyzeTimelineFlagsEveryOverlappingPair(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			{ID: "a", Title: "First", ScheduledStart: base, ScheduledEnd: base.Add(3 * time.Hour)},
			{ID: "b", Title: "Second", ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(4 * time.Hour)},
			{ID: "c", Title: "Third", ScheduledStart: base.Add(2 * time.Hour), ScheduledEnd: base.Add(5 * time.Hour)},
		},
	}

	result, appErr := svc.AnalyzeTimeline(context.Background(), eventID)
	if appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}

	// a/b, a/c and b/c all collide, including the non-adjacent a/c pair.
	if len(result.Conflicts) != 3 {
		t.Fatalf("expected 3 conflicts, got %d", len(result.Conflicts))
	}
	pairs := map[string]bool{}
	for _, conflict := range result.Conflicts {
		pairs[conflict.FirstItemID+"/"+conflict.SecondItemID] = true
	}
	for _, want := range []string{"a/b", "a/c", "b/c"} {
		if !pairs[want] {
			t.Errorf("missing conflict for pair %s, got %v", want, pairs)
		}
	}
}

func TestUpsertTimelineClearsPreviousAnalysis(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			{ID: "a", Title: "First", ScheduledStart: base, ScheduledEnd: base.Add(2 * time.Hour)},
			{ID: "b", Title: "Second", ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(3 * time.Hour)},
		},
	}
	if _, appErr := svc.AnalyzeTimeline(context.Background(), eventID); appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}
	if len(repo.timelines[eventID].ConflictWarnings) == 0 {
		t.Fatalf("fixture should start with a flagged conflict")
	}

	// Re-uploading the run sheet with the clash resolved drops the old
	// analysis instead of leaving it attached to the new items.
	resolved := &dto.UpsertTimelineRequest{
		Items: []entity.TimelineItem{
			{ID: "a", Title: "First", ScheduledStart: base, ScheduledEnd: base.Add(time.Hour)},
			{ID: "b", Title: "Second", ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(2 * time.Hour)},
		},
	}
	saved, appErr := svc.UpsertTimeline(context.Background(), eventID, resolved)
	if appErr != nil {
		t.Fatalf("UpsertTimeline failed: %v", appErr)
	}
	if len(saved.ConflictWarnings) != 0 || len(saved.OptimizationSuggestions) != 0 {
		t.Errorf("stale analysis survived the upload: %+v", saved.ConflictWarnings)
	}
	if saved.AIOptimized {
		t.Errorf("a fresh upload is unanalyzed")
	}
}

func TestAnalyzeTimelineUsesSetupAndTeardown(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			// Teardown runs until 16:30 even though the set ends at 16:00.
			{ID: "band", EnablerName: "The Quartet", Title: "Live set",
				ScheduledStart: base, ScheduledEnd: base.Add(2 * time.Hour),
				TeardownEnd: ptr(base.Add(150 * time.Minute))},
			// Scheduled clear of the set but setup begins during teardown.
			{ID: "caterer", EnablerName: "Fine Bites", Title: "Dinner service",
				ScheduledStart: base.Add(3 * time.Hour), ScheduledEnd: base.Add(5 * time.Hour),
				SetupStart: ptr(base.Add(2 * time.Hour))},
		},
	}

	result, appErr := svc.AnalyzeTimeline(context.Background(), eventID)
	if appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}

	if len(result.Conflicts) != 1 {
		t.Fatalf("expected the setup/teardown overlap to be flagged, got %d conflicts", len(result.Conflicts))
	}
	if result.Conflicts[0].OverlapMinutes != 30 {
		t.Errorf("overlap: got %.0f minutes, want 30", result.Conflicts[0].OverlapMinutes)
	}
}

func TestAnalyzeTimelineNoConflicts(t *testing.T) {
	repo, svc := newTimelineFixture()
	eventID := uuid.New()

	base := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	repo.timelines[eventID] = &entity.EventTimeline{
		EventID: eventID,
		Items: entity.TimelineItems{
			{ID: "a", Title: "First", ScheduledStart: base, ScheduledEnd: base.Add(time.Hour)},
			// Touching endpoints are not a conflict.
			{ID: "b", Title: "Second", ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(2 * time.Hour)},
		},
	}

	result, appErr := svc.AnalyzeTimeline(context.Background(), eventID)
	if appErr != nil {
		t.Fatalf("AnalyzeTimeline failed: %v", appErr)
	}
	if len(result.Conflicts) != 0 || len(result.Suggestions) != 0 {
		t.Errorf("expected a clean run sheet, got %+v", result.Conflicts)
	}
}

func TestAnalyzeTimelineMissing(t *testing.T) {
	_, svc := newTimelineFixture()
	_, appErr := svc.AnalyzeTimeline(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
}
