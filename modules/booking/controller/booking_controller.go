package controller

import (
	"blink-scheduler/core/constants"
	"blink-scheduler/core/controller"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/params"
	"blink-scheduler/core/utils"
	"blink-scheduler/modules/booking/dto"
	"blink-scheduler/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BookingController handles booking, hold and offer HTTP requests.
type BookingController struct {
	controller.BaseController
	BookingService service.BookingServiceInterface
}

func NewBookingController(bookingService service.BookingServiceInterface) *BookingController {
	return &BookingController{
		BaseController: controller.NewBaseController(),
		BookingService: bookingService,
	}
}

func (c *BookingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token data", nil)
	}

	return claims.UserID, nil
}

// PlaceHold handles POST /bookings/holds
// @Summary Place a hold on a provider's slot
// @Description Claims the slot for a limited time after a conflict check. Conflicting slots are rejected with the conflict list.
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PlaceHoldRequest true "Slot to hold"
// @Success 200 {object} dto.ReservationResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/bookings/holds [post]
func (c *BookingController) PlaceHold(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.PlaceHoldRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}
	if req.EventID == uuid.Nil || req.EnablerID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "event_id and enabler_id are required")
	}

	result, appErr := c.BookingService.PlaceHold(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Hold placed")
}

// GetHolds handles GET /bookings/holds
// @Summary List the caller's active holds
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ReservationResponse
// @Router /private/bookings/holds [get]
func (c *BookingController) GetHolds(ctx echo.Context) error {
	enablerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.BookingService.GetHolds(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Holds")
}

// AcceptOffer handles POST /bookings/offers/:offer_id/accept
// @Summary Accept a booking offer
// @Description Marks the offer accepted. The booking and its calendar event are created by the next reconciliation run.
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param offer_id path string true "Offer ID"
// @Success 200 {object} dto.OfferResponse
// @Failure 404 {object} errors.AppError
// @Router /private/bookings/offers/{offer_id}/accept [post]
func (c *BookingController) AcceptOffer(ctx echo.Context) error {
	enablerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	offerID, err := uuid.Parse(ctx.Param("offer_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid offer ID")
	}

	result, appErr := c.BookingService.AcceptOffer(ctx.Request().Context(), enablerID, offerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Offer accepted")
}

// GetBookings handles GET /bookings
// @Summary List the caller's bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, confirmed, completed, cancelled, in_progress)
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} entity.Pagination[dto.BookingResponse]
// @Router /private/bookings [get]
func (c *BookingController) GetBookings(ctx echo.Context) error {
	enablerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.BookingService.GetBookings(ctx.Request().Context(), enablerID, ctx.QueryParam("status"), params.FromContext(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Bookings")
}

// GetBooking handles GET /bookings/:booking_id
// @Summary Get one booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/bookings/{booking_id} [get]
func (c *BookingController) GetBooking(ctx echo.Context) error {
	enablerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	bookingID, err := uuid.Parse(ctx.Param("booking_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid booking ID")
	}

	result, appErr := c.BookingService.GetBooking(ctx.Request().Context(), enablerID, bookingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Booking")
}
