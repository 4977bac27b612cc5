package router

import (
	"blink-scheduler/core/middleware"
	"blink-scheduler/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles booking routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{BookingController: bookingController}
}

// Setup registers booking routes
func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	privateRoutes := v1.Group("/private/bookings", mw.AuthMiddleware())
	privateRoutes.GET("", r.BookingController.GetBookings)
	privateRoutes.GET("/:booking_id", r.BookingController.GetBooking)
	privateRoutes.POST("/holds", r.BookingController.PlaceHold)
	privateRoutes.GET("/holds", r.BookingController.GetHolds)
	privateRoutes.POST("/offers/:offer_id/accept", r.BookingController.AcceptOffer)
}
