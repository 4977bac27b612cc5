package booking

import (
	"blink-scheduler/core/clock"
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/booking/controller"
	"blink-scheduler/modules/booking/repository"
	"blink-scheduler/modules/booking/router"
	"blink-scheduler/modules/booking/service"

	"github.com/labstack/echo/v4"
)

// Init wires the booking module and registers its routes. The repository
// is created by the server ahead of time because the calendar module
// reads bookings during reconciliation.
func Init(
	e *echo.Echo,
	mw *middleware.Middleware,
	repo repository.BookingRepositoryInterface,
	detector service.ConflictChecker,
	clk clock.Clock,
) service.BookingServiceInterface {
	svc := service.NewBookingService(repo, detector, clk)
	ctrl := controller.NewBookingController(svc)
	rtr := router.NewBookingRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
