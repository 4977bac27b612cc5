package timeline

import (
	"blink-scheduler/core/clock"
	"blink-scheduler/core/database"
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/timeline/controller"
	"blink-scheduler/modules/timeline/repository"
	"blink-scheduler/modules/timeline/router"
	"blink-scheduler/modules/timeline/service"

	"github.com/labstack/echo/v4"
)

// Init wires the timeline module and registers its routes.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, clk clock.Clock) service.TimelineServiceInterface {
	repo := repository.NewTimelineRepository(db)
	svc := service.NewTimelineService(repo, clk)
	ctrl := controller.NewTimelineController(svc)
	rtr := router.NewTimelineRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
