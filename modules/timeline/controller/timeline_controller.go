package controller

import (
	"blink-scheduler/core/constants"
	"blink-scheduler/core/controller"
	"blink-scheduler/core/errors"
	"blink-scheduler/modules/timeline/dto"
	"blink-scheduler/modules/timeline/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TimelineController handles event timeline HTTP requests.
type TimelineController struct {
	controller.BaseController
	TimelineService service.TimelineServiceInterface
}

func NewTimelineController(timelineService service.TimelineServiceInterface) *TimelineController {
	return &TimelineController{
		BaseController:  controller.NewBaseController(),
		TimelineService: timelineService,
	}
}

func (c *TimelineController) requireAuth(ctx echo.Context) error {
	if ctx.Get(constants.ContextTokenData) == nil {
		return errors.NewAppError(errors.ErrUnauthorized, "user not authenticated", nil)
	}
	return nil
}

// GetTimeline handles GET /timelines/:event_id
// @Summary Get an event's timeline
// @Tags Timelines
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} dto.TimelineResponse
// @Failure 404 {object} errors.AppError
// @Router /private/timelines/{event_id} [get]
func (c *TimelineController) GetTimeline(ctx echo.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event ID")
	}

	result, appErr := c.TimelineService.GetTimeline(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Timeline")
}

// UpsertTimeline handles PUT /timelines/:event_id
// @Summary Save an event's timeline
// @Description Replaces the event's run sheet. Saving clears previous conflict warnings and suggestions.
// @Tags Timelines
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body dto.UpsertTimelineRequest true "Timeline items"
// @Success 200 {object} dto.TimelineResponse
// @Failure 400 {object} errors.AppError
// @Router /private/timelines/{event_id} [put]
func (c *TimelineController) UpsertTimeline(ctx echo.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event ID")
	}

	var req dto.UpsertTimelineRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.TimelineService.UpsertTimeline(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Timeline saved")
}

// AnalyzeTimeline handles POST /timelines/:event_id/analyze
// @Summary Analyze an event's timeline for conflicts
// @Description Flags overlapping segments and writes shift suggestions next to the items. Items are never moved automatically.
// @Tags Timelines
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} dto.TimelineAnalysisResponse
// @Failure 404 {object} errors.AppError
// @Router /private/timelines/{event_id}/analyze [post]
func (c *TimelineController) AnalyzeTimeline(ctx echo.Context) error {
	if err := c.requireAuth(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid event ID")
	}

	result, appErr := c.TimelineService.AnalyzeTimeline(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Timeline analyzed")
}
