package scheduling

import (
	"blink-scheduler/core/clock"
	"blink-scheduler/core/database"
	"blink-scheduler/core/middleware"
	"blink-scheduler/core/storage"
	calendarRepo "blink-scheduler/modules/calendar/repository"
	"blink-scheduler/modules/scheduling/controller"
	"blink-scheduler/modules/scheduling/repository"
	"blink-scheduler/modules/scheduling/router"
	"blink-scheduler/modules/scheduling/service"

	"github.com/labstack/echo/v4"
)

// Init wires the scheduling module and registers its routes. The
// detector is returned for the booking flow's pre-hold check and the
// analyzer for the background analytics sweep. snapshots and store may
// be nil when redis caching or report export is disabled.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	calRepo calendarRepo.CalendarRepositoryInterface,
	snapshots service.SnapshotCache,
	store storage.ObjectStorage,
	clk clock.Clock,
) (service.ConflictDetectorInterface, service.WorkloadAnalyzerInterface) {
	repo := repository.NewSchedulingRepository(db)
	detector := service.NewConflictDetector(calRepo)
	analyzer := service.NewWorkloadAnalyzer(calRepo, repo, snapshots, store, clk)
	ctrl := controller.NewSchedulingController(detector, analyzer)
	rtr := router.NewSchedulingRouter(ctrl)

	rtr.Setup(e, mw)
	return detector, analyzer
}
