package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/errors"
	bookingEntity "blink-scheduler/modules/booking/entity"
	"blink-scheduler/modules/calendar/entity"

	"github.com/google/uuid"
)

// ===================== Fakes =====================

type fakeCalendarRepo struct {
	events []entity.CalendarEvent
	rules  []entity.AvailabilityRule
	prefs  map[uuid.UUID]*entity.CalendarPreferences
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{prefs: map[uuid.UUID]*entity.CalendarPreferences{}}
}

func (f *fakeCalendarRepo) CreateEvent(_ context.Context, event *entity.CalendarEvent) (*entity.CalendarEvent, error) {
	saved := *event
	saved.ID = uuid.New()
	f.events = append(f.events, saved)
	return &saved, nil
}

func (f *fakeCalendarRepo) GetEventByID(_ context.Context, id uuid.UUID) (*entity.CalendarEvent, error) {
	for i := range f.events {
		if f.events[i].ID == id {
			copied := f.events[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetEventByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.CalendarEvent, error) {
	for i := range f.events {
		if f.events[i].BookingID != nil && *f.events[i].BookingID == bookingID {
			copied := f.events[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendarRepo) GetEventsByEnabler(_ context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error) {
	var out []entity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetEventsByEnablerInRange(_ context.Context, enablerID uuid.UUID, from, to time.Time) ([]entity.CalendarEvent, error) {
	var out []entity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID && !e.StartDatetime.Before(from) && e.StartDatetime.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetBookingLinkedEvents(_ context.Context, enablerID uuid.UUID) ([]entity.CalendarEvent, error) {
	var out []entity.CalendarEvent
	for _, e := range f.events {
		if e.EnablerID == enablerID && e.BookingID != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) UpdateEvent(_ context.Context, event *entity.CalendarEvent) error {
	for i := range f.events {
		if f.events[i].ID == event.ID {
			f.events[i] = *event
			return nil
		}
	}
	return nil
}

func (f *fakeCalendarRepo) CreateRule(_ context.Context, rule *entity.AvailabilityRule) (*entity.AvailabilityRule, error) {
	saved := *rule
	saved.ID = uuid.New()
	f.rules = append(f.rules, saved)
	return &saved, nil
}

func (f *fakeCalendarRepo) GetRulesByEnabler(_ context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error) {
	var out []entity.AvailabilityRule
	for _, r := range f.rules {
		if r.EnablerID == enablerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) GetBlackoutRules(_ context.Context, enablerID uuid.UUID) ([]entity.AvailabilityRule, error) {
	var out []entity.AvailabilityRule
	for _, r := range f.rules {
		if r.EnablerID == enablerID && r.RuleType == entity.RuleTypeBlackout && !r.IsAvailable {
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

func (f *fakeCalendarRepo) GetPreferencesByEnabler(_ context.Context, enablerID uuid.UUID) (*entity.CalendarPreferences, error) {
	return f.prefs[enablerID], nil
}

func (f *fakeCalendarRepo) UpsertPreferences(_ context.Context, prefs *entity.CalendarPreferences) (*entity.CalendarPreferences, error) {
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

type fakeBookingRepo struct {
	bookings     []bookingEntity.Booking
	reservations []bookingEntity.Reservation
	offers       []bookingEntity.BookingOffer
	marketEvents map[uuid.UUID]*bookingEntity.Event
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{marketEvents: map[uuid.UUID]*bookingEntity.Event{}}
}

func (f *fakeBookingRepo) CreateBooking(_ context.Context, booking *bookingEntity.Booking) (*bookingEntity.Booking, error) {
	saved := *booking
	saved.ID = uuid.New()
	f.bookings = append(f.bookings, saved)
	return &saved, nil
}

func (f *fakeBookingRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*bookingEntity.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			copied := f.bookings[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetBookingByEventAndEnabler(_ context.Context, eventID, enablerID uuid.UUID) (*bookingEntity.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].EventID == eventID && f.bookings[i].EnablerID == enablerID {
			copied := f.bookings[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetBookingsByEnablerAndStatus(_ context.Context, enablerID uuid.UUID, status bookingEntity.BookingStatus) ([]bookingEntity.Booking, error) {
	var out []bookingEntity.Booking
	for _, b := range f.bookings {
		if b.EnablerID == enablerID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) CreateReservation(_ context.Context, res *bookingEntity.Reservation) (*bookingEntity.Reservation, error) {
	saved := *res
	saved.ID = uuid.New()
	f.reservations = append(f.reservations, saved)
	return &saved, nil
}

func (f *fakeBookingRepo) GetReservationByID(_ context.Context, id uuid.UUID) (*bookingEntity.Reservation, error) {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			copied := f.reservations[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetHoldReservationsByEnabler(_ context.Context, enablerID uuid.UUID) ([]bookingEntity.Reservation, error) {
	var out []bookingEntity.Reservation
	for _, r := range f.reservations {
		if r.EnablerID == enablerID && r.Status == bookingEntity.ReservationStatusHold {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateReservationCalendarEventID(_ context.Context, id uuid.UUID, calendarEventID uuid.UUID) error {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			eventID := calendarEventID
			f.reservations[i].EnablerCalendarEventID = &eventID
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) GetOfferByID(_ context.Context, id uuid.UUID) (*bookingEntity.BookingOffer, error) {
	for i := range f.offers {
		if f.offers[i].ID == id {
			copied := f.offers[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetAcceptedOffersByEnabler(_ context.Context, enablerID uuid.UUID) ([]bookingEntity.BookingOffer, error) {
	var out []bookingEntity.BookingOffer
	for _, o := range f.offers {
		if o.EnablerID == enablerID && o.Status == bookingEntity.OfferStatusAccepted {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateOfferStatus(_ context.Context, id uuid.UUID, status bookingEntity.OfferStatus) error {
	for i := range f.offers {
		if f.offers[i].ID == id {
			f.offers[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) UpdateOfferBookingID(_ context.Context, id uuid.UUID, bookingID uuid.UUID) error {
	for i := range f.offers {
		if f.offers[i].ID == id {
			linked := bookingID
			f.offers[i].BookingID = &linked
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) GetEventByID(_ context.Context, id uuid.UUID) (*bookingEntity.Event, error) {
	return f.marketEvents[id], nil
}

type fakeLocker struct {
	held map[uuid.UUID]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[uuid.UUID]bool{}}
}

func (f *fakeLocker) AcquireSyncLock(_ context.Context, enablerID uuid.UUID) (bool, error) {
	if f.held[enablerID] {
		return false, nil
	}
	f.held[enablerID] = true
	return true, nil
}

func (f *fakeLocker) ReleaseSyncLock(_ context.Context, enablerID uuid.UUID) error {
	delete(f.held, enablerID)
	return nil
}

// ===================== Helpers =====================

var testInstant = time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

func newSyncFixture() (*fakeCalendarRepo, *fakeBookingRepo, CalendarSyncServiceInterface) {
	calRepo := newFakeCalendarRepo()
	bkRepo := newFakeBookingRepo()
	svc := NewCalendarSyncService(calRepo, bkRepo, newFakeLocker(), clock.Fixed{Instant: testInstant})
	return calRepo, bkRepo, svc
}

func addConfirmedBooking(bkRepo *fakeBookingRepo, enablerID uuid.UUID) bookingEntity.Booking {
	eventDate := testInstant.Add(48 * time.Hour)
	marketEventID := uuid.New()
	bkRepo.marketEvents[marketEventID] = &bookingEntity.Event{
		Title:     "Summer Wedding",
		EventDate: &eventDate,
	}

	booking := bookingEntity.Booking{
		EventID:       marketEventID,
		EnablerID:     enablerID,
		TotalAmount:   1200,
		Status:        bookingEntity.BookingStatusConfirmed,
		PaymentStatus: bookingEntity.PaymentStatusPaid,
	}
	booking.ID = uuid.New()
	bkRepo.bookings = append(bkRepo.bookings, booking)
	return booking
}

// ===================== Tests =====================

func TestReconcileCreatesEventForConfirmedBooking(t *testing.T) {
	calRepo, bkRepo, svc := newSyncFixture()
	enablerID := uuid.New()
	booking := addConfirmedBooking(bkRepo, enablerID)

	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("Reconcile failed: %v", appErr)
	}
	if report.Synced != 1 {
		t.Fatalf("expected 1 synced, got %d", report.Synced)
	}
	if len(calRepo.events) != 1 {
		t.Fatalf("expected 1 calendar event, got %d", len(calRepo.events))
	}

	event := calRepo.events[0]
	if event.Title != "Summer Wedding" {
		t.Errorf("expected market event title, got %q", event.Title)
	}
	if event.BookingID == nil || *event.BookingID != booking.ID {
		t.Errorf("calendar event not linked to booking")
	}
	if event.Status != entity.CalendarEventStatusConfirmed {
		t.Errorf("expected confirmed status, got %s", event.Status)
	}
	if event.Color != entity.ColorConfirmed {
		t.Errorf("expected %s, got %s", entity.ColorConfirmed, event.Color)
	}
	if got := event.EndDatetime.Sub(event.StartDatetime); got != 240*time.Minute {
		t.Errorf("expected 240 minute default duration, got %v", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	calRepo, bkRepo, svc := newSyncFixture()
	enablerID := uuid.New()
	addConfirmedBooking(bkRepo, enablerID)

	if _, appErr := svc.Reconcile(context.Background(), enablerID); appErr != nil {
		t.Fatalf("first run failed: %v", appErr)
	}
	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("second run failed: %v", appErr)
	}

	if report.Synced != 0 {
		t.Errorf("second run synced %d, want 0", report.Synced)
	}
	if report.Skipped == 0 {
		t.Errorf("second run should skip the existing projection")
	}
	if len(calRepo.events) != 1 {
		t.Errorf("second run duplicated projections: %d events", len(calRepo.events))
	}
}

func TestReconcileRefreshesStaleStatus(t *testing.T) {
	calRepo, bkRepo, svc := newSyncFixture()
	enablerID := uuid.New()
	booking := addConfirmedBooking(bkRepo, enablerID)

	stale := entity.CalendarEvent{
		EnablerID:     enablerID,
		BookingID:     &booking.ID,
		EventType:     entity.CalendarEventTypeBooking,
		Title:         "Summer Wedding",
		StartDatetime: testInstant,
		EndDatetime:   testInstant.Add(4 * time.Hour),
		Status:        entity.CalendarEventStatusPending,
		Color:         entity.ColorPending,
	}
	stale.ID = uuid.New()
	calRepo.events = append(calRepo.events, stale)

	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("Reconcile failed: %v", appErr)
	}
	if report.Synced != 1 {
		t.Fatalf("expected the stale projection to be refreshed, synced=%d", report.Synced)
	}

	event := calRepo.events[0]
	if event.Status != entity.CalendarEventStatusConfirmed {
		t.Errorf("status not refreshed: %s", event.Status)
	}
	if event.Color != entity.ColorConfirmed {
		t.Errorf("color not refreshed: %s", event.Color)
	}
}

func TestReconcileHoldCreatesTentativeEvent(t *testing.T) {
	calRepo, bkRepo, svc := newSyncFixture()
	enablerID := uuid.New()

	res := bookingEntity.Reservation{
		EventID:   uuid.New(),
		EnablerID: enablerID,
		SlotStart: testInstant.Add(24 * time.Hour),
		SlotEnd:   testInstant.Add(28 * time.Hour),
		Status:    bookingEntity.ReservationStatusHold,
		ExpiresAt: testInstant.Add(30 * time.Minute),
		HoldCode:  "AB12CD3",
	}
	res.ID = uuid.New()
	bkRepo.reservations = append(bkRepo.reservations, res)

	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("Reconcile failed: %v", appErr)
	}
	if report.Synced != 1 {
		t.Fatalf("expected 1 synced, got %d", report.Synced)
	}

	event := calRepo.events[0]
	if event.Title != "Tentative Hold" {
		t.Errorf("expected tentative hold title, got %q", event.Title)
	}
	if event.Status != entity.CalendarEventStatusPending || event.Color != entity.ColorPending {
		t.Errorf("hold projection should be pending/amber, got %s/%s", event.Status, event.Color)
	}

	if bkRepo.reservations[0].EnablerCalendarEventID == nil {
		t.Fatalf("reservation not linked back to its projection")
	}
	if *bkRepo.reservations[0].EnablerCalendarEventID != event.ID {
		t.Errorf("reservation linked to wrong projection")
	}

	// Second run reuses the projection via the back-reference.
	report, appErr = svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("second run failed: %v", appErr)
	}
	if report.Synced != 0 || len(calRepo.events) != 1 {
		t.Errorf("hold projection duplicated: synced=%d events=%d", report.Synced, len(calRepo.events))
	}
}

func TestReconcileMaterializesAcceptedOffer(t *testing.T) {
	calRepo, bkRepo, svc := newSyncFixture()
	enablerID := uuid.New()

	counter := 950.0
	offer := bookingEntity.BookingOffer{
		EventID:            uuid.New(),
		EnablerID:          enablerID,
		OfferedAmount:      800,
		CounterOfferAmount: &counter,
		Status:             bookingEntity.OfferStatusAccepted,
	}
	offer.ID = uuid.New()
	bkRepo.offers = append(bkRepo.offers, offer)

	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("Reconcile failed: %v", appErr)
	}

	if len(bkRepo.bookings) != 1 {
		t.Fatalf("expected the offer to materialize a booking, got %d", len(bkRepo.bookings))
	}
	booking := bkRepo.bookings[0]
	if booking.Status != bookingEntity.BookingStatusConfirmed {
		t.Errorf("materialized booking should be confirmed, got %s", booking.Status)
	}
	if booking.TotalAmount != counter {
		t.Errorf("counter offer amount should win: got %.2f", booking.TotalAmount)
	}
	if bkRepo.offers[0].BookingID == nil || *bkRepo.offers[0].BookingID != booking.ID {
		t.Errorf("offer not linked to the materialized booking")
	}
	if len(calRepo.events) != 1 {
		t.Errorf("expected 1 projection for the booking, got %d", len(calRepo.events))
	}
	if report.Synced == 0 {
		t.Errorf("offer materialization should count as synced")
	}

	// A second run must not create another booking for the same offer.
	if _, appErr := svc.Reconcile(context.Background(), enablerID); appErr != nil {
		t.Fatalf("second run failed: %v", appErr)
	}
	if len(bkRepo.bookings) != 1 {
		t.Errorf("offer materialized twice: %d bookings", len(bkRepo.bookings))
	}
}

func TestReconcileCancelsOrphansWithoutDeleting(t *testing.T) {
	calRepo, _, svc := newSyncFixture()
	enablerID := uuid.New()

	missingBookingID := uuid.New()
	orphan := entity.CalendarEvent{
		EnablerID:     enablerID,
		BookingID:     &missingBookingID,
		EventType:     entity.CalendarEventTypeBooking,
		Title:         "Ghost Booking",
		Description:   "Booking " + missingBookingID.String(),
		StartDatetime: testInstant,
		EndDatetime:   testInstant.Add(2 * time.Hour),
		Status:        entity.CalendarEventStatusConfirmed,
		Color:         entity.ColorConfirmed,
	}
	orphan.ID = uuid.New()
	calRepo.events = append(calRepo.events, orphan)

	report, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("Reconcile failed: %v", appErr)
	}
	if report.Synced != 1 {
		t.Fatalf("expected the orphan to be neutralized, synced=%d", report.Synced)
	}

	if len(calRepo.events) != 1 {
		t.Fatalf("orphan must be kept, not deleted: %d events", len(calRepo.events))
	}
	event := calRepo.events[0]
	if event.Status != entity.CalendarEventStatusCancelled {
		t.Errorf("orphan should be cancelled, got %s", event.Status)
	}
	if event.Color != entity.ColorCancelled {
		t.Errorf("orphan should be red, got %s", event.Color)
	}
	if !strings.Contains(event.Description, "[Booking not found]") {
		t.Errorf("orphan description missing marker: %q", event.Description)
	}

	// Second sweep leaves it alone.
	report, appErr = svc.Reconcile(context.Background(), enablerID)
	if appErr != nil {
		t.Fatalf("second run failed: %v", appErr)
	}
	if report.Synced != 0 {
		t.Errorf("neutralized orphan re-processed: synced=%d", report.Synced)
	}
	if got := strings.Count(calRepo.events[0].Description, "[Booking not found]"); got != 1 {
		t.Errorf("marker appended %d times", got)
	}
}

func TestReconcileRejectedWhileLocked(t *testing.T) {
	calRepo := newFakeCalendarRepo()
	bkRepo := newFakeBookingRepo()
	locker := newFakeLocker()
	svc := NewCalendarSyncService(calRepo, bkRepo, locker, clock.Fixed{Instant: testInstant})

	enablerID := uuid.New()
	locker.held[enablerID] = true

	_, appErr := svc.Reconcile(context.Background(), enablerID)
	if appErr == nil {
		t.Fatalf("expected an error while the lock is held")
	}
	if appErr.Code != errors.ErrSyncInProgress {
		t.Errorf("expected %s, got %s", errors.ErrSyncInProgress, appErr.Code)
	}
}
