package router

import (
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/timeline/controller"

	"github.com/labstack/echo/v4"
)

// TimelineRouter handles event timeline routes
type TimelineRouter struct {
	TimelineController *controller.TimelineController
}

func NewTimelineRouter(timelineController *controller.TimelineController) *TimelineRouter {
	return &TimelineRouter{TimelineController: timelineController}
}

// Setup registers timeline routes
func (r *TimelineRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/timelines", mw.AuthMiddleware())
	privateRoutes.GET("/:event_id", r.TimelineController.GetTimeline)
	privateRoutes.PUT("/:event_id", r.TimelineController.UpsertTimeline)
	privateRoutes.POST("/:event_id/analyze", r.TimelineController.AnalyzeTimeline)
}
