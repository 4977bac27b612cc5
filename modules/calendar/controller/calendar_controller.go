package controller

import (
	"time"

	"blink-scheduler/core/constants"
	"blink-scheduler/core/controller"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/utils"
	"blink-scheduler/modules/calendar/dto"
	"blink-scheduler/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CalendarController handles calendar HTTP requests.
type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarServiceInterface
	SyncService     service.CalendarSyncServiceInterface
}

func NewCalendarController(calSvc service.CalendarServiceInterface, syncSvc service.CalendarSyncServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: calSvc,
		SyncService:     syncSvc,
	}
}

// getEnablerIDFromContext extracts the provider identity from JWT claims.
func (c *CalendarController) getEnablerIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Sync handles POST /calendar/sync
// @Summary Reconcile the caller's calendar
// @Description Ensures every confirmed booking, active hold and accepted offer has exactly one calendar event, and cancels orphaned events
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SyncReport
// @Failure 401 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/calendar/sync [post]
func (c *CalendarController) Sync(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	report, appErr := c.SyncService.Reconcile(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, report, "Calendar synchronized")
}

// SyncEnabler handles POST /internal/calendar/sync/:enabler_id — same
// operation, triggered by operators or the background worker.
func (c *CalendarController) SyncEnabler(ctx echo.Context) error {
	enablerID, err := uuid.Parse(ctx.Param("enabler_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid enabler ID")
	}

	report, appErr := c.SyncService.Reconcile(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, report, "Calendar synchronized")
}

// GetEvents handles GET /calendar/events
// @Summary List calendar events
// @Description Lists the caller's calendar projections, optionally bounded by from/to (RFC3339)
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param from query string false "Range start (RFC3339)"
// @Param to query string false "Range end (RFC3339)"
// @Success 200 {array} dto.CalendarEventResponse
// @Router /private/calendar/events [get]
func (c *CalendarController) GetEvents(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var from, to *time.Time
	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid from parameter")
		}
		from = &parsed
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "invalid to parameter")
		}
		to = &parsed
	}

	result, appErr := c.CalendarService.GetEvents(ctx.Request().Context(), enablerID, from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateUnavailable handles POST /calendar/unavailable
// @Summary Block out time
// @Description Creates a manual unavailability block on the caller's calendar
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateUnavailableRequest true "Block details"
// @Success 200 {object} dto.CalendarEventResponse
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/unavailable [post]
func (c *CalendarController) CreateUnavailable(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.CreateUnavailableRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.CalendarService.CreateUnavailableBlock(ctx.Request().Context(), enablerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Unavailability block created")
}

// CreateRule handles POST /calendar/rules
// @Summary Create an availability rule
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateRuleRequest true "Rule details"
// @Success 200 {object} dto.RuleResponse
// @Router /private/calendar/rules [post]
func (c *CalendarController) CreateRule(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.CreateRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.CalendarService.CreateRule(ctx.Request().Context(), enablerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Rule created")
}

// GetRules handles GET /calendar/rules
// @Summary List availability rules
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.RuleResponse
// @Router /private/calendar/rules [get]
func (c *CalendarController) GetRules(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarService.GetRules(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteRule handles DELETE /calendar/rules/:id
// @Summary Delete an availability rule
// @Tags Calendar
// @Security BearerAuth
// @Param id path string true "Rule ID"
// @Success 200 {object} map[string]string
// @Router /private/calendar/rules/{id} [delete]
func (c *CalendarController) DeleteRule(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid rule ID")
	}

	if appErr := c.CalendarService.DeleteRule(ctx.Request().Context(), enablerID, ruleID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Rule deleted")
}

// GetPreferences handles GET /calendar/preferences
// @Summary Get calendar preferences
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PreferencesResponse
// @Failure 404 {object} errors.AppError
// @Router /private/calendar/preferences [get]
func (c *CalendarController) GetPreferences(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarService.GetPreferences(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpsertPreferences handles PUT /calendar/preferences
// @Summary Save calendar preferences
// @Tags Calendar
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PreferencesRequest true "Preferences"
// @Success 200 {object} dto.PreferencesResponse
// @Router /private/calendar/preferences [put]
func (c *CalendarController) UpsertPreferences(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.PreferencesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid request body")
	}

	result, appErr := c.CalendarService.UpsertPreferences(ctx.Request().Context(), enablerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Preferences saved")
}

// GetShareURL handles GET /calendar/share-url
// @Summary Get the public calendar URL
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param name query string false "Display name used in the slug"
// @Success 200 {object} dto.ShareURLResponse
// @Router /private/calendar/share-url [get]
func (c *CalendarController) GetShareURL(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.CalendarService.GetShareURL(ctx.Request().Context(), enablerID, ctx.QueryParam("name"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
