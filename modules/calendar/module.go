package calendar

import (
	"blink-scheduler/core/cache"
	"blink-scheduler/core/clock"
	"blink-scheduler/core/database"
	"blink-scheduler/core/middleware"
	bookingRepo "blink-scheduler/modules/booking/repository"
	"blink-scheduler/modules/calendar/controller"
	"blink-scheduler/modules/calendar/repository"
	"blink-scheduler/modules/calendar/router"
	"blink-scheduler/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar module and registers its routes. The sync
// service is returned so the background worker can drive reconciliation.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	cacheClient cache.ICache,
	clk clock.Clock,
	bkRepo bookingRepo.BookingRepositoryInterface,
) (repository.CalendarRepositoryInterface, service.CalendarSyncServiceInterface) {
	repo := repository.NewCalendarRepository(db)
	syncSvc := service.NewCalendarSyncService(repo, bkRepo, cacheClient, clk)
	calSvc := service.NewCalendarService(repo, clk)
	ctrl := controller.NewCalendarController(calSvc, syncSvc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return repo, syncSvc
}
