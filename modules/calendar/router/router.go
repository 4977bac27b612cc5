package router

import (
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

// CalendarRouter handles calendar routes
type CalendarRouter struct {
	CalendarController *controller.CalendarController
}

func NewCalendarRouter(calendarController *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{CalendarController: calendarController}
}

// Setup registers calendar routes
func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/calendar", mw.AuthMiddleware())
	privateRoutes.POST("/sync", r.CalendarController.Sync)
	privateRoutes.GET("/events", r.CalendarController.GetEvents)
	privateRoutes.POST("/unavailable", r.CalendarController.CreateUnavailable)
	privateRoutes.POST("/rules", r.CalendarController.CreateRule)
	privateRoutes.GET("/rules", r.CalendarController.GetRules)
	privateRoutes.DELETE("/rules/:id", r.CalendarController.DeleteRule)
	privateRoutes.GET("/preferences", r.CalendarController.GetPreferences)
	privateRoutes.PUT("/preferences", r.CalendarController.UpsertPreferences)
	privateRoutes.GET("/share-url", r.CalendarController.GetShareURL)

	internalRoutes := v1.Group("/internal/calendar", mw.APIKeyMiddleware())
	internalRoutes.POST("/sync/:enabler_id", r.CalendarController.SyncEnabler)
}
