package entity

import (
	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle of a confirmed commitment. completed and
// cancelled are terminal.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusInProgress BookingStatus = "in_progress"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Booking is a provider's confirmed commitment of time to a host's event.
// Created when an offer is accepted or a hold is confirmed manually.
type Booking struct {
	EventID       uuid.UUID     `db:"event_id" json:"event_id"`
	EnablerID     uuid.UUID     `db:"enabler_id" json:"enabler_id"`
	PackageID     *uuid.UUID    `db:"package_id" json:"package_id,omitempty"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	Status        BookingStatus `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	entity.BaseEntity
}

func (Booking) TableName() string {
	return "bookings"
}
