package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blink-scheduler/core/clock"
	"blink-scheduler/core/constants"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	bookingEntity "blink-scheduler/modules/booking/entity"
	bookingRepo "blink-scheduler/modules/booking/repository"
	"blink-scheduler/modules/calendar/dto"
	"blink-scheduler/modules/calendar/entity"
	"blink-scheduler/modules/calendar/repository"

	"github.com/google/uuid"
)

// orphanMarker is appended to the description of projections whose source
// commitment disappeared. They are cancelled, never deleted, so the audit
// trail survives.
const orphanMarker = " [Booking not found]"

// SyncLocker serializes reconciliation per enabler. Concurrent runs for the
// same provider would race the existence checks and duplicate projections.
type SyncLocker interface {
	AcquireSyncLock(ctx context.Context, enablerID uuid.UUID) (bool, error)
	ReleaseSyncLock(ctx context.Context, enablerID uuid.UUID) error
}

// CalendarSyncService keeps the calendar-event projection consistent with
// the booking-like records: confirmed bookings, active holds, and accepted
// offers each get exactly one calendar event; orphaned events are
// neutralized.
type CalendarSyncService struct {
	calendarRepo repository.CalendarRepositoryInterface
	bookingRepo  bookingRepo.BookingRepositoryInterface
	locker       SyncLocker
	clk          clock.Clock
}

type CalendarSyncServiceInterface interface {
	Reconcile(ctx context.Context, enablerID uuid.UUID) (*dto.SyncReport, *errors.AppError)
}

func NewCalendarSyncService(
	calRepo repository.CalendarRepositoryInterface,
	bkRepo bookingRepo.BookingRepositoryInterface,
	locker SyncLocker,
	clk clock.Clock,
) CalendarSyncServiceInterface {
	return &CalendarSyncService{
		calendarRepo: calRepo,
		bookingRepo:  bkRepo,
		locker:       locker,
		clk:          clk,
	}
}

// Reconcile runs the four passes in order: confirmed bookings, HOLD
// reservations, accepted offers without bookings, then the orphan sweep.
// Every item failure lands in the report's error list; the batch never
// aborts on one bad record.
func (s *CalendarSyncService) Reconcile(ctx context.Context, enablerID uuid.UUID) (*dto.SyncReport, *errors.AppError) {
	logger.Info("CalendarSyncService:Reconcile:Start", "enabler_id", enablerID)

	acquired, err := s.locker.AcquireSyncLock(ctx, enablerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to acquire sync lock", err)
	}
	if !acquired {
		return nil, errors.NewAppError(errors.ErrSyncInProgress, "a reconciliation for this enabler is already running", nil)
	}
	defer func() {
		if err := s.locker.ReleaseSyncLock(ctx, enablerID); err != nil {
			logger.Error("CalendarSyncService:Reconcile:ReleaseLock:Error", "enabler_id", enablerID, "error", err)
		}
	}()

	report := &dto.SyncReport{Errors: []dto.SyncError{}}

	s.syncConfirmedBookings(ctx, enablerID, report)
	s.syncHoldReservations(ctx, enablerID, report)
	s.syncAcceptedOffers(ctx, enablerID, report)
	s.sweepOrphans(ctx, enablerID, report)

	logger.Info("CalendarSyncService:Reconcile:Done",
		"enabler_id", enablerID,
		"synced", report.Synced,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}

func recordError(report *dto.SyncReport, itemType string, id uuid.UUID, err error) {
	report.Errors = append(report.Errors, dto.SyncError{
		Type:  itemType,
		ID:    id.String(),
		Error: err.Error(),
	})
}

// mapBookingStatus translates a booking status into the projection status.
// Unknown statuses fall back to pending.
func mapBookingStatus(status bookingEntity.BookingStatus) entity.CalendarEventStatus {
	switch status {
	case bookingEntity.BookingStatusPending:
		return entity.CalendarEventStatusPending
	case bookingEntity.BookingStatusConfirmed:
		return entity.CalendarEventStatusConfirmed
	case bookingEntity.BookingStatusCompleted:
		return entity.CalendarEventStatusCompleted
	case bookingEntity.BookingStatusCancelled:
		return entity.CalendarEventStatusCancelled
	case bookingEntity.BookingStatusInProgress:
		return entity.CalendarEventStatusInProgress
	default:
		return entity.CalendarEventStatusPending
	}
}

// ===================== Pass 1: confirmed bookings =====================

func (s *CalendarSyncService) syncConfirmedBookings(ctx context.Context, enablerID uuid.UUID, report *dto.SyncReport) {
	bookings, err := s.bookingRepo.GetBookingsByEnablerAndStatus(ctx, enablerID, bookingEntity.BookingStatusConfirmed)
	if err != nil {
		recordError(report, "booking_list", enablerID, err)
		return
	}

	for i := range bookings {
		s.ensureBookingEvent(ctx, &bookings[i], report)
	}
}

// ensureBookingEvent guarantees one projection per booking, keyed by
// booking_id. Existing projections get their status refreshed; missing ones
// are created with a best-effort title/date from the linked event.
func (s *CalendarSyncService) ensureBookingEvent(ctx context.Context, booking *bookingEntity.Booking, report *dto.SyncReport) {
	existing, err := s.calendarRepo.GetEventByBookingID(ctx, booking.ID)
	if err != nil {
		recordError(report, "booking", booking.ID, err)
		return
	}

	desired := mapBookingStatus(booking.Status)

	if existing != nil {
		if existing.Status == desired {
			report.Skipped++
			return
		}
		existing.Status = desired
		existing.Color = entity.StatusColor(desired)
		if err := s.calendarRepo.UpdateEvent(ctx, existing); err != nil {
			recordError(report, "booking", booking.ID, err)
			return
		}
		report.Synced++
		return
	}

	title := "Event Booking"
	start := s.clk.Now()

	// Title/date resolution is best effort: a vanished event is tolerated,
	// not fatal.
	marketEvent, err := s.bookingRepo.GetEventByID(ctx, booking.EventID)
	if err != nil {
		logger.Warn("CalendarSyncService:EnsureBookingEvent:EventLookupFailed",
			"booking_id", booking.ID, "event_id", booking.EventID, "error", err)
	} else if marketEvent != nil {
		title = marketEvent.Title
		if marketEvent.EventDate != nil {
			start = *marketEvent.EventDate
		}
	}

	end := start.Add(constants.DefaultBookingDurationMinutes * time.Minute)

	created := &entity.CalendarEvent{
		EnablerID:     booking.EnablerID,
		BookingID:     &booking.ID,
		EventID:       &booking.EventID,
		EventType:     entity.CalendarEventTypeBooking,
		Title:         title,
		Description:   fmt.Sprintf("Booking %s", booking.ID),
		StartDatetime: start,
		EndDatetime:   end,
		Status:        desired,
		Color:         entity.StatusColor(desired),
	}

	if _, err := s.calendarRepo.CreateEvent(ctx, created); err != nil {
		recordError(report, "booking", booking.ID, err)
		return
	}
	report.Synced++
}

// ===================== Pass 2: HOLD reservations =====================

func (s *CalendarSyncService) syncHoldReservations(ctx context.Context, enablerID uuid.UUID, report *dto.SyncReport) {
	reservations, err := s.bookingRepo.GetHoldReservationsByEnabler(ctx, enablerID)
	if err != nil {
		recordError(report, "reservation_list", enablerID, err)
		return
	}

	for i := range reservations {
		res := &reservations[i]

		if res.EnablerCalendarEventID != nil {
			existing, err := s.calendarRepo.GetEventByID(ctx, *res.EnablerCalendarEventID)
			if err != nil {
				recordError(report, "reservation", res.ID, err)
				continue
			}
			if existing != nil {
				report.Skipped++
				continue
			}
		}

		created, err := s.calendarRepo.CreateEvent(ctx, &entity.CalendarEvent{
			EnablerID:     res.EnablerID,
			BookingID:     &res.ID,
			EventID:       &res.EventID,
			EventType:     entity.CalendarEventTypeBooking,
			Title:         "Tentative Hold",
			Description:   fmt.Sprintf("Hold expires at %s", res.ExpiresAt.Format(time.RFC3339)),
			StartDatetime: res.SlotStart,
			EndDatetime:   res.SlotEnd,
			Status:        entity.CalendarEventStatusPending,
			Color:         entity.ColorPending,
		})
		if err != nil {
			recordError(report, "reservation", res.ID, err)
			continue
		}

		// Keep the cross-reference current so the next run reuses the
		// projection instead of duplicating it.
		if err := s.bookingRepo.UpdateReservationCalendarEventID(ctx, res.ID, created.ID); err != nil {
			recordError(report, "reservation", res.ID, err)
			continue
		}
		report.Synced++
	}
}

// ===================== Pass 3: accepted offers =====================

func (s *CalendarSyncService) syncAcceptedOffers(ctx context.Context, enablerID uuid.UUID, report *dto.SyncReport) {
	offers, err := s.bookingRepo.GetAcceptedOffersByEnabler(ctx, enablerID)
	if err != nil {
		recordError(report, "offer_list", enablerID, err)
		return
	}

	for i := range offers {
		offer := &offers[i]

		existing, err := s.bookingRepo.GetBookingByEventAndEnabler(ctx, offer.EventID, offer.EnablerID)
		if err != nil {
			recordError(report, "offer", offer.ID, err)
			continue
		}
		if existing != nil {
			report.Skipped++
			continue
		}

		amount := offer.OfferedAmount
		if offer.CounterOfferAmount != nil {
			amount = *offer.CounterOfferAmount
		}

		booking, err := s.bookingRepo.CreateBooking(ctx, &bookingEntity.Booking{
			EventID:       offer.EventID,
			EnablerID:     offer.EnablerID,
			PackageID:     offer.PackageID,
			TotalAmount:   amount,
			Status:        bookingEntity.BookingStatusConfirmed,
			PaymentStatus: bookingEntity.PaymentStatusPending,
		})
		if err != nil {
			recordError(report, "offer", offer.ID, err)
			continue
		}

		s.ensureBookingEvent(ctx, booking, report)

		if err := s.bookingRepo.UpdateOfferBookingID(ctx, offer.ID, booking.ID); err != nil {
			recordError(report, "offer", offer.ID, err)
		}
	}
}

// ===================== Pass 4: orphan sweep =====================

func (s *CalendarSyncService) sweepOrphans(ctx context.Context, enablerID uuid.UUID, report *dto.SyncReport) {
	events, err := s.calendarRepo.GetBookingLinkedEvents(ctx, enablerID)
	if err != nil {
		recordError(report, "orphan_sweep", enablerID, err)
		return
	}

	for i := range events {
		event := &events[i]
		if event.BookingID == nil {
			continue
		}

		booking, err := s.bookingRepo.GetBookingByID(ctx, *event.BookingID)
		if err != nil {
			recordError(report, "calendar_event", event.ID, err)
			continue
		}
		if booking != nil {
			continue
		}

		reservation, err := s.bookingRepo.GetReservationByID(ctx, *event.BookingID)
		if err != nil {
			recordError(report, "calendar_event", event.ID, err)
			continue
		}
		if reservation != nil {
			continue
		}

		// Already neutralized on a previous run.
		if event.Status == entity.CalendarEventStatusCancelled && strings.Contains(event.Description, orphanMarker) {
			continue
		}

		event.Status = entity.CalendarEventStatusCancelled
		event.Color = entity.ColorCancelled
		if !strings.Contains(event.Description, orphanMarker) {
			event.Description += orphanMarker
		}

		if err := s.calendarRepo.UpdateEvent(ctx, event); err != nil {
			recordError(report, "calendar_event", event.ID, err)
			continue
		}
		logger.Warn("CalendarSyncService:SweepOrphans:Cancelled",
			"calendar_event_id", event.ID, "booking_id", *event.BookingID)
		report.Synced++
	}
}
