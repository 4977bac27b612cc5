package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blink-scheduler/core/cache"
	"blink-scheduler/core/clock"
	"blink-scheduler/core/config"
	"blink-scheduler/core/database"
	"blink-scheduler/core/logger"
	"blink-scheduler/core/middleware"
	"blink-scheduler/core/storage"
	"blink-scheduler/core/tasks"
	"blink-scheduler/modules/booking"
	bookingrepo "blink-scheduler/modules/booking/repository"
	"blink-scheduler/modules/calendar"
	"blink-scheduler/modules/scheduling"
	"blink-scheduler/modules/timeline"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// Run boots the scheduling core: config, database, redis, HTTP modules
// and, when enabled, the background worker. Blocks until SIGINT/SIGTERM.
func Run() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	cfg := config.Get()
	logger.SetLevel(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	cacheClient := cache.New(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("Server:Redis:Unreachable", "addr", cfg.Redis.Addr, "error", err)
	}
	cancel()

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		store = storage.NewS3Storage(cfg.Storage)
	}

	clk := clock.New()
	mw := middleware.NewMiddleware()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Module wiring. The booking repository is shared with the calendar
	// module, which reads bookings during reconciliation; the conflict
	// detector guards hold placement in the booking module.
	bkRepo := bookingrepo.NewBookingRepository(&db)
	calRepo, syncSvc := calendar.Init(e, &db, mw, cacheClient, clk, bkRepo)
	detector, analyzer := scheduling.Init(e, &db, mw, calRepo, cacheClient, store, clk)
	booking.Init(e, mw, bkRepo, detector, clk)
	timeline.Init(e, &db, mw, clk)

	errCh := make(chan error, 3)

	if cfg.Worker.Enabled {
		handler := tasks.NewHandler(cfg.Redis, syncSvc, analyzer, calRepo)
		defer handler.Close()

		mux := asynq.NewServeMux()
		handler.Register(mux)

		worker := tasks.NewServer(*cfg)
		go func() {
			logger.Info("Worker:Start", "concurrency", cfg.Worker.Concurrency)
			if err := worker.Run(mux); err != nil {
				errCh <- fmt.Errorf("worker: %w", err)
			}
		}()
		defer worker.Shutdown()

		scheduler, err := tasks.NewScheduler(*cfg)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		go func() {
			if err := scheduler.Run(); err != nil {
				errCh <- fmt.Errorf("scheduler: %w", err)
			}
		}()
		defer scheduler.Shutdown()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("Server:Start", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Server:Shutdown:Signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("Server:Shutdown:Complete")
	return nil
}
