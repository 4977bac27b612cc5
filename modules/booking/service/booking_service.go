package service

import (
	"context"
	"time"

	"blink-scheduler/core/clock"
	coreentity "blink-scheduler/core/entity"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/params"
	"blink-scheduler/core/utils"
	"blink-scheduler/modules/booking/dto"
	"blink-scheduler/modules/booking/entity"
	"blink-scheduler/modules/booking/repository"
	schedulingdto "blink-scheduler/modules/scheduling/dto"

	"github.com/google/uuid"
)

const holdTTL = 30 * time.Minute

// ConflictChecker is the slice of the scheduling module used to guard
// hold placement.
type ConflictChecker interface {
	DetectConflicts(ctx context.Context, enablerID uuid.UUID, start, end time.Time) (*schedulingdto.ConflictCheckResponse, *errors.AppError)
}

type BookingServiceInterface interface {
	PlaceHold(ctx context.Context, req *dto.PlaceHoldRequest) (*dto.ReservationResponse, *errors.AppError)
	GetHolds(ctx context.Context, enablerID uuid.UUID) ([]dto.ReservationResponse, *errors.AppError)
	AcceptOffer(ctx context.Context, enablerID, offerID uuid.UUID) (*dto.OfferResponse, *errors.AppError)
	GetBookings(ctx context.Context, enablerID uuid.UUID, status string, page params.QueryParams) (*coreentity.Pagination[dto.BookingResponse], *errors.AppError)
	GetBooking(ctx context.Context, enablerID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError)
}

type BookingService struct {
	repo     repository.BookingRepositoryInterface
	detector ConflictChecker
	clk      clock.Clock
}

func NewBookingService(repo repository.BookingRepositoryInterface, detector ConflictChecker, clk clock.Clock) *BookingService {
	return &BookingService{repo: repo, detector: detector, clk: clk}
}

// PlaceHold claims a provider's slot for a limited time. The slot is
// checked for conflicts first; a conflicting slot is rejected with the
// full conflict list so the host can pick another one.
func (s *BookingService) PlaceHold(ctx context.Context, req *dto.PlaceHoldRequest) (*dto.ReservationResponse, *errors.AppError) {
	logger.Info("BookingService:PlaceHold:Start", "enabler_id", req.EnablerID, "event_id", req.EventID)

	if !req.SlotStart.Before(req.SlotEnd) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "slot_start must be before slot_end", nil)
	}

	check, appErr := s.detector.DetectConflicts(ctx, req.EnablerID, req.SlotStart, req.SlotEnd)
	if appErr != nil {
		return nil, appErr
	}
	if check.HasConflicts {
		logger.Info("BookingService:PlaceHold:Conflict", "enabler_id", req.EnablerID, "conflicts", len(check.Conflicts))
		return nil, errors.NewAppError(errors.ErrConflict, "The requested slot is not available", check.Conflicts)
	}

	reservation := &entity.Reservation{
		EventID:   req.EventID,
		EnablerID: req.EnablerID,
		SlotStart: req.SlotStart,
		SlotEnd:   req.SlotEnd,
		Status:    entity.ReservationStatusHold,
		ExpiresAt: s.clk.Now().Add(holdTTL),
		HoldCode:  utils.GenerateID(),
	}

	created, err := s.repo.CreateReservation(ctx, reservation)
	if err != nil {
		logger.Error("BookingService:PlaceHold:Create:Error", "enabler_id", req.EnablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to place hold", err.Error())
	}

	logger.Info("BookingService:PlaceHold:Success", "reservation_id", created.ID, "hold_code", created.HoldCode)
	return dto.ToReservationResponse(created), nil
}

func (s *BookingService) GetHolds(ctx context.Context, enablerID uuid.UUID) ([]dto.ReservationResponse, *errors.AppError) {
	holds, err := s.repo.GetHoldReservationsByEnabler(ctx, enablerID)
	if err != nil {
		logger.Error("BookingService:GetHolds:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load holds", err.Error())
	}

	responses := make([]dto.ReservationResponse, 0, len(holds))
	for i := range holds {
		responses = append(responses, *dto.ToReservationResponse(&holds[i]))
	}
	return responses, nil
}

// AcceptOffer marks an offer accepted. The booking and its calendar
// event are materialized by the next reconciliation run, not here.
func (s *BookingService) AcceptOffer(ctx context.Context, enablerID, offerID uuid.UUID) (*dto.OfferResponse, *errors.AppError) {
	logger.Info("BookingService:AcceptOffer:Start", "enabler_id", enablerID, "offer_id", offerID)

	offer, err := s.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		logger.Error("BookingService:AcceptOffer:Get:Error", "offer_id", offerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load offer", err.Error())
	}
	if offer == nil || offer.EnablerID != enablerID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Offer not found", nil)
	}

	switch offer.Status {
	case entity.OfferStatusPending, entity.OfferStatusCountered:
	case entity.OfferStatusAccepted:
		return dto.ToOfferResponse(offer), nil
	default:
		return nil, errors.NewAppError(errors.ErrInvalidRequestData, "Offer can no longer be accepted", nil)
	}

	if err := s.repo.UpdateOfferStatus(ctx, offerID, entity.OfferStatusAccepted); err != nil {
		logger.Error("BookingService:AcceptOffer:Update:Error", "offer_id", offerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to accept offer", err.Error())
	}

	offer.Status = entity.OfferStatusAccepted
	logger.Info("BookingService:AcceptOffer:Success", "offer_id", offerID)
	return dto.ToOfferResponse(offer), nil
}

func (s *BookingService) GetBookings(ctx context.Context, enablerID uuid.UUID, status string, page params.QueryParams) (*coreentity.Pagination[dto.BookingResponse], *errors.AppError) {
	bookings, err := s.repo.GetBookingsByEnablerAndStatus(ctx, enablerID, entity.BookingStatus(status))
	if err != nil {
		logger.Error("BookingService:GetBookings:Error", "enabler_id", enablerID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load bookings", err.Error())
	}

	total := len(bookings)
	offset := (page.PageNumber - 1) * page.PageSize
	if offset > total {
		offset = total
	}
	end := offset + page.PageSize
	if end > total {
		end = total
	}

	items := make([]dto.BookingResponse, 0, end-offset)
	for i := offset; i < end; i++ {
		items = append(items, *dto.ToBookingResponse(&bookings[i]))
	}

	return &coreentity.Pagination[dto.BookingResponse]{
		Items:      items,
		TotalItems: total,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, enablerID, bookingID uuid.UUID) (*dto.BookingResponse, *errors.AppError) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		logger.Error("BookingService:GetBooking:Error", "booking_id", bookingID, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load booking", err.Error())
	}
	if booking == nil || booking.EnablerID != enablerID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}

	return dto.ToBookingResponse(booking), nil
}
