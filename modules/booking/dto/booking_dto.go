package dto

import (
	"time"

	"blink-scheduler/modules/booking/entity"

	"github.com/google/uuid"
)

// ===================== Holds =====================

type PlaceHoldRequest struct {
	EventID   uuid.UUID `json:"event_id" validate:"required"`
	EnablerID uuid.UUID `json:"enabler_id" validate:"required"`
	SlotStart time.Time `json:"slot_start" validate:"required"`
	SlotEnd   time.Time `json:"slot_end" validate:"required"`
}

type ReservationResponse struct {
	ID                     uuid.UUID  `json:"id"`
	EventID                uuid.UUID  `json:"event_id"`
	EnablerID              uuid.UUID  `json:"enabler_id"`
	SlotStart              time.Time  `json:"slot_start"`
	SlotEnd                time.Time  `json:"slot_end"`
	Status                 string     `json:"status"`
	ExpiresAt              time.Time  `json:"expires_at"`
	HoldCode               string     `json:"hold_code"`
	EnablerCalendarEventID *uuid.UUID `json:"enabler_calendar_event_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

func ToReservationResponse(res *entity.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:                     res.ID,
		EventID:                res.EventID,
		EnablerID:              res.EnablerID,
		SlotStart:              res.SlotStart,
		SlotEnd:                res.SlotEnd,
		Status:                 string(res.Status),
		ExpiresAt:              res.ExpiresAt,
		HoldCode:               res.HoldCode,
		EnablerCalendarEventID: res.EnablerCalendarEventID,
		CreatedAt:              res.CreatedAt,
	}
}

// ===================== Bookings =====================

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EnablerID     uuid.UUID  `json:"enabler_id"`
	PackageID     *uuid.UUID `json:"package_id,omitempty"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToBookingResponse(booking *entity.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            booking.ID,
		EventID:       booking.EventID,
		EnablerID:     booking.EnablerID,
		PackageID:     booking.PackageID,
		TotalAmount:   booking.TotalAmount,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}
}

// ===================== Offers =====================

type OfferResponse struct {
	ID                 uuid.UUID  `json:"id"`
	EventID            uuid.UUID  `json:"event_id"`
	EnablerID          uuid.UUID  `json:"enabler_id"`
	OfferedAmount      float64    `json:"offered_amount"`
	CounterOfferAmount *float64   `json:"counter_offer_amount,omitempty"`
	Status             string     `json:"status"`
	BookingID          *uuid.UUID `json:"booking_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func ToOfferResponse(offer *entity.BookingOffer) *OfferResponse {
	return &OfferResponse{
		ID:                 offer.ID,
		EventID:            offer.EventID,
		EnablerID:          offer.EnablerID,
		OfferedAmount:      offer.OfferedAmount,
		CounterOfferAmount: offer.CounterOfferAmount,
		Status:             string(offer.Status),
		BookingID:          offer.BookingID,
		CreatedAt:          offer.CreatedAt,
	}
}
