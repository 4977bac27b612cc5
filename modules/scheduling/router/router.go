package router

import (
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/scheduling/controller"

	"github.com/labstack/echo/v4"
)

// SchedulingRouter handles conflict, workload and insight routes
type SchedulingRouter struct {
	SchedulingController *controller.SchedulingController
}

func NewSchedulingRouter(schedulingController *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{SchedulingController: schedulingController}
}

// Setup registers scheduling routes
func (r *SchedulingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/scheduling", mw.AuthMiddleware())
	privateRoutes.POST("/conflicts/check", r.SchedulingController.CheckConflicts)
	privateRoutes.GET("/workload", r.SchedulingController.GetWorkload)
	privateRoutes.POST("/workload/analyze", r.SchedulingController.AnalyzeWorkload)
	privateRoutes.POST("/workload/export", r.SchedulingController.ExportReport)
	privateRoutes.GET("/insights", r.SchedulingController.GetInsights)
	privateRoutes.POST("/insights/generate", r.SchedulingController.GenerateInsights)
	privateRoutes.PATCH("/insights/:insight_id", r.SchedulingController.UpdateInsightStatus)

	internalRoutes := v1.Group("/internal/scheduling", mw.APIKeyMiddleware())
	internalRoutes.POST("/workload/analyze/:enabler_id", r.SchedulingController.AnalyzeEnabler)
}
