package entity

import (
	"blink-scheduler/core/entity"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusDeclined  OfferStatus = "declined"
	OfferStatusCountered OfferStatus = "countered"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
)

// BookingOffer is a negotiable proposal for a provider's time. An accepted
// offer without a linked booking is a pending-reconciliation state: the
// calendar sync pass materializes the booking and writes BookingID back.
type BookingOffer struct {
	EventID            uuid.UUID   `db:"event_id" json:"event_id"`
	EnablerID          uuid.UUID   `db:"enabler_id" json:"enabler_id"`
	PackageID          *uuid.UUID  `db:"package_id" json:"package_id,omitempty"`
	OfferedAmount      float64     `db:"offered_amount" json:"offered_amount"`
	CounterOfferAmount *float64    `db:"counter_offer_amount" json:"counter_offer_amount,omitempty"`
	Status             OfferStatus `db:"status" json:"status"`
	BookingID          *uuid.UUID  `db:"booking_id" json:"booking_id,omitempty"`
	entity.BaseEntity
}

func (BookingOffer) TableName() string {
	return "booking_offers"
}
