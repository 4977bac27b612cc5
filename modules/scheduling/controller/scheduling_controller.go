package controller

import (
	"blink-scheduler/core/constants"
	"blink-scheduler/core/controller"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/utils"
	"blink-scheduler/modules/scheduling/dto"
	"blink-scheduler/modules/scheduling/entity"
	"blink-scheduler/modules/scheduling/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SchedulingController handles conflict checks, workload analytics and
// insight HTTP requests.
type SchedulingController struct {
	controller.BaseController
	Detector service.ConflictDetectorInterface
	Analyzer service.WorkloadAnalyzerInterface
}

func NewSchedulingController(detector service.ConflictDetectorInterface, analyzer service.WorkloadAnalyzerInterface) *SchedulingController {
	return &SchedulingController{
		BaseController: controller.NewBaseController(),
		Detector:       detector,
		Analyzer:       analyzer,
	}
}

func (c *SchedulingController) getEnablerIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// CheckConflicts handles POST /scheduling/conflicts/check
// @Summary Check a candidate slot for conflicts
// @Description Checks the interval against existing events, blackout periods and working days. Always returns the full conflict list.
// @Tags Scheduling
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ConflictCheckRequest true "Candidate interval"
// @Success 200 {object} dto.ConflictCheckResponse
// @Failure 400 {object} errors.AppError
// @Router /private/scheduling/conflicts/check [post]
func (c *SchedulingController) CheckConflicts(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	var req dto.ConflictCheckRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	result, appErr := c.Detector.DetectConflicts(ctx.Request().Context(), enablerID, req.StartDatetime, req.EndDatetime)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Conflict check complete")
}

// GetWorkload handles GET /scheduling/workload
// @Summary Get workload analytics
// @Description Returns the caller's workload metrics for the requested period (daily, weekly or monthly; weekly by default)
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param period query string false "Analysis period" Enums(daily, weekly, monthly)
// @Success 200 {object} dto.WorkloadAnalyticsResponse
// @Router /private/scheduling/workload [get]
func (c *SchedulingController) GetWorkload(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	period := entity.AnalysisPeriod(ctx.QueryParam("period"))
	result, appErr := c.Analyzer.GetWorkload(ctx.Request().Context(), enablerID, period)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Workload analytics")
}

// AnalyzeWorkload handles POST /scheduling/workload/analyze
// @Summary Recompute workload analytics
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param period query string false "Analysis period" Enums(daily, weekly, monthly)
// @Success 200 {object} dto.WorkloadAnalyticsResponse
// @Router /private/scheduling/workload/analyze [post]
func (c *SchedulingController) AnalyzeWorkload(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	period := entity.AnalysisPeriod(ctx.QueryParam("period"))
	result, appErr := c.Analyzer.AnalyzeWorkload(ctx.Request().Context(), enablerID, period)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Workload analyzed")
}

// AnalyzeEnabler handles POST /internal/scheduling/workload/analyze/:enabler_id,
// used by operators and the background analytics sweep.
func (c *SchedulingController) AnalyzeEnabler(ctx echo.Context) error {
	enablerID, err := uuid.Parse(ctx.Param("enabler_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid enabler ID")
	}

	period := entity.AnalysisPeriod(ctx.QueryParam("period"))
	result, appErr := c.Analyzer.AnalyzeWorkload(ctx.Request().Context(), enablerID, period)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Workload analyzed")
}

// GenerateInsights handles POST /scheduling/insights/generate
// @Summary Generate scheduling insights
// @Description Derives insights from the current weekly workload. Insight types with a pending row are skipped.
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.InsightResponse
// @Router /private/scheduling/insights/generate [post]
func (c *SchedulingController) GenerateInsights(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.Analyzer.GenerateInsights(ctx.Request().Context(), enablerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Insights generated")
}

// GetInsights handles GET /scheduling/insights
// @Summary List scheduling insights
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, acknowledged, dismissed, expired)
// @Success 200 {array} dto.InsightResponse
// @Router /private/scheduling/insights [get]
func (c *SchedulingController) GetInsights(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	result, appErr := c.Analyzer.GetInsights(ctx.Request().Context(), enablerID, ctx.QueryParam("status"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Insights")
}

// UpdateInsightStatus handles PATCH /scheduling/insights/:insight_id
// @Summary Acknowledge or dismiss an insight
// @Tags Scheduling
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param insight_id path string true "Insight ID"
// @Param request body dto.UpdateInsightStatusRequest true "New status"
// @Success 200 {object} controller.Success
// @Failure 400 {object} errors.AppError
// @Router /private/scheduling/insights/{insight_id} [patch]
func (c *SchedulingController) UpdateInsightStatus(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	insightID, err := uuid.Parse(ctx.Param("insight_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "invalid insight ID")
	}

	var req dto.UpdateInsightStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	if appErr := c.Analyzer.UpdateInsightStatus(ctx.Request().Context(), enablerID, insightID, req.Status); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Insight updated")
}

// ExportReport handles POST /scheduling/workload/export
// @Summary Export a workload report
// @Description Archives the current workload metrics as a JSON object in the configured bucket
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param period query string false "Analysis period" Enums(daily, weekly, monthly)
// @Success 200 {object} dto.ReportExportResponse
// @Router /private/scheduling/workload/export [post]
func (c *SchedulingController) ExportReport(ctx echo.Context) error {
	enablerID, err := c.getEnablerIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "user not authenticated")
	}

	period := entity.AnalysisPeriod(ctx.QueryParam("period"))
	result, appErr := c.Analyzer.ExportReport(ctx.Request().Context(), enablerID, period)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Report exported")
}
