package repository

import (
	"context"
	"database/sql"

	"blink-scheduler/core/database"
	"blink-scheduler/core/logger"
	"blink-scheduler/modules/booking/entity"

	"github.com/google/uuid"
)

// BookingRepositoryInterface covers every booking-like record the
// scheduling core reads or writes: bookings, holds, offers, and the
// read-only marketplace event.
type BookingRepositoryInterface interface {
	// Bookings
	CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetBookingByEventAndEnabler(ctx context.Context, eventID, enablerID uuid.UUID) (*entity.Booking, error)
	GetBookingsByEnablerAndStatus(ctx context.Context, enablerID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error)

	// Reservations (holds)
	CreateReservation(ctx context.Context, res *entity.Reservation) (*entity.Reservation, error)
	GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	GetHoldReservationsByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.Reservation, error)
	UpdateReservationCalendarEventID(ctx context.Context, id uuid.UUID, calendarEventID uuid.UUID) error

	// Offers
	GetOfferByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error)
	GetAcceptedOffersByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.BookingOffer, error)
	UpdateOfferStatus(ctx context.Context, id uuid.UUID, status entity.OfferStatus) error
	UpdateOfferBookingID(ctx context.Context, id uuid.UUID, bookingID uuid.UUID) error

	// Marketplace events (read-only collaborator)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
}

type BookingRepository struct {
	DB database.IDatabase
}

func NewBookingRepository(db database.IDatabase) *BookingRepository {
	return &BookingRepository{DB: db}
}

// ===================== Bookings =====================

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings (event_id, enabler_id, package_id, total_amount, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, event_id, enabler_id, package_id, total_amount, status, payment_status, created_at, updated_at
	`

	var created entity.Booking
	err := r.DB.GetContext(ctx, &created, query,
		booking.EventID, booking.EnablerID, booking.PackageID,
		booking.TotalAmount, booking.Status, booking.PaymentStatus)
	if err != nil {
		logger.Error("BookingRepository:CreateBooking", err)
		return nil, err
	}

	return &created, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, event_id, enabler_id, package_id, total_amount, status, payment_status, created_at, updated_at
		FROM bookings WHERE id = $1
	`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetBookingByID", err)
		return nil, err
	}

	return &booking, nil
}

func (r *BookingRepository) GetBookingByEventAndEnabler(ctx context.Context, eventID, enablerID uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, event_id, enabler_id, package_id, total_amount, status, payment_status, created_at, updated_at
		FROM bookings WHERE event_id = $1 AND enabler_id = $2
		ORDER BY created_at LIMIT 1
	`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, eventID, enablerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetBookingByEventAndEnabler", err)
		return nil, err
	}

	return &booking, nil
}

func (r *BookingRepository) GetBookingsByEnablerAndStatus(ctx context.Context, enablerID uuid.UUID, status entity.BookingStatus) ([]entity.Booking, error) {
	query := `
		SELECT id, event_id, enabler_id, package_id, total_amount, status, payment_status, created_at, updated_at
		FROM bookings
		WHERE enabler_id = $1
	`
	args := []any{enablerID}

	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		logger.Error("BookingRepository:GetBookingsByEnablerAndStatus", err)
		return nil, err
	}

	return bookings, nil
}

// ===================== Reservations =====================

func (r *BookingRepository) CreateReservation(ctx context.Context, res *entity.Reservation) (*entity.Reservation, error) {
	query := `
		INSERT INTO reservations (event_id, enabler_id, slot_start, slot_end, status, expires_at, hold_code, enabler_calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, event_id, enabler_id, slot_start, slot_end, status, expires_at, hold_code, enabler_calendar_event_id, created_at, updated_at
	`

	var created entity.Reservation
	err := r.DB.GetContext(ctx, &created, query,
		res.EventID, res.EnablerID, res.SlotStart, res.SlotEnd,
		res.Status, res.ExpiresAt, res.HoldCode, res.EnablerCalendarEventID)
	if err != nil {
		logger.Error("BookingRepository:CreateReservation", err)
		return nil, err
	}

	return &created, nil
}

func (r *BookingRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, event_id, enabler_id, slot_start, slot_end, status, expires_at, hold_code, enabler_calendar_event_id, created_at, updated_at
		FROM reservations WHERE id = $1
	`

	var res entity.Reservation
	err := r.DB.GetContext(ctx, &res, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetReservationByID", err)
		return nil, err
	}

	return &res, nil
}

func (r *BookingRepository) GetHoldReservationsByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.Reservation, error) {
	query := `
		SELECT id, event_id, enabler_id, slot_start, slot_end, status, expires_at, hold_code, enabler_calendar_event_id, created_at, updated_at
		FROM reservations
		WHERE enabler_id = $1 AND status = $2
		ORDER BY slot_start
	`

	var reservations []entity.Reservation
	err := r.DB.SelectContext(ctx, &reservations, query, enablerID, entity.ReservationStatusHold)
	if err != nil {
		logger.Error("BookingRepository:GetHoldReservationsByEnabler", err)
		return nil, err
	}

	return reservations, nil
}

func (r *BookingRepository) UpdateReservationCalendarEventID(ctx context.Context, id uuid.UUID, calendarEventID uuid.UUID) error {
	query := `UPDATE reservations SET enabler_calendar_event_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, calendarEventID); err != nil {
		logger.Error("BookingRepository:UpdateReservationCalendarEventID", err)
		return err
	}
	return nil
}

// ===================== Offers =====================

func (r *BookingRepository) GetOfferByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error) {
	query := `
		SELECT id, event_id, enabler_id, package_id, offered_amount, counter_offer_amount, status, booking_id, created_at, updated_at
		FROM booking_offers WHERE id = $1
	`

	var offer entity.BookingOffer
	err := r.DB.GetContext(ctx, &offer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetOfferByID", err)
		return nil, err
	}

	return &offer, nil
}

func (r *BookingRepository) GetAcceptedOffersByEnabler(ctx context.Context, enablerID uuid.UUID) ([]entity.BookingOffer, error) {
	query := `
		SELECT id, event_id, enabler_id, package_id, offered_amount, counter_offer_amount, status, booking_id, created_at, updated_at
		FROM booking_offers
		WHERE enabler_id = $1 AND status = $2
		ORDER BY created_at
	`

	var offers []entity.BookingOffer
	err := r.DB.SelectContext(ctx, &offers, query, enablerID, entity.OfferStatusAccepted)
	if err != nil {
		logger.Error("BookingRepository:GetAcceptedOffersByEnabler", err)
		return nil, err
	}

	return offers, nil
}

func (r *BookingRepository) UpdateOfferStatus(ctx context.Context, id uuid.UUID, status entity.OfferStatus) error {
	query := `UPDATE booking_offers SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("BookingRepository:UpdateOfferStatus", err)
		return err
	}
	return nil
}

func (r *BookingRepository) UpdateOfferBookingID(ctx context.Context, id uuid.UUID, bookingID uuid.UUID) error {
	query := `UPDATE booking_offers SET booking_id = $2, updated_at = NOW() WHERE id = $1`
	if err := r.DB.ExecContext(ctx, query, id, bookingID); err != nil {
		logger.Error("BookingRepository:UpdateOfferBookingID", err)
		return err
	}
	return nil
}

// ===================== Marketplace events =====================

func (r *BookingRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, host_id, title, event_date, location, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}
