package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"blink-scheduler/core/config"
	"blink-scheduler/core/errors"
	"blink-scheduler/core/logger"
	calendarrepo "blink-scheduler/modules/calendar/repository"
	calendarservice "blink-scheduler/modules/calendar/service"
	schedulingentity "blink-scheduler/modules/scheduling/entity"
	schedulingservice "blink-scheduler/modules/scheduling/service"

	"github.com/hibiken/asynq"
)

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Handler owns the background side of the scheduling core: calendar
// reconciliation sweeps and workload analytics runs.
type Handler struct {
	syncSvc      calendarservice.CalendarSyncServiceInterface
	analyzer     schedulingservice.WorkloadAnalyzerInterface
	calendarRepo calendarrepo.CalendarRepositoryInterface
	client       *asynq.Client
}

func NewHandler(
	cfg config.RedisConfig,
	syncSvc calendarservice.CalendarSyncServiceInterface,
	analyzer schedulingservice.WorkloadAnalyzerInterface,
	calendarRepo calendarrepo.CalendarRepositoryInterface,
) *Handler {
	return &Handler{
		syncSvc:      syncSvc,
		analyzer:     analyzer,
		calendarRepo: calendarRepo,
		client:       asynq.NewClient(redisOpt(cfg)),
	}
}

func (h *Handler) Close() error {
	return h.client.Close()
}

// NewServer builds the asynq server the handlers run on.
func NewServer(cfg config.Config) *asynq.Server {
	return asynq.NewServer(redisOpt(cfg.Redis), asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})
}

func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeCalendarSync, h.HandleCalendarSync)
	mux.HandleFunc(TypeCalendarSyncAll, h.HandleCalendarSyncAll)
	mux.HandleFunc(TypeWorkloadAnalyze, h.HandleWorkloadAnalyze)
	mux.HandleFunc(TypeWorkloadAnalyzeAll, h.HandleWorkloadAnalyzeAll)
}

func (h *Handler) HandleCalendarSync(ctx context.Context, t *asynq.Task) error {
	var payload EnablerPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w: %w", TypeCalendarSync, err, asynq.SkipRetry)
	}

	report, appErr := h.syncSvc.Reconcile(ctx, payload.EnablerID)
	if appErr != nil {
		// Another run holds the lock; the next sweep picks this enabler
		// up again.
		if appErr.Code == errors.ErrSyncInProgress {
			logger.Info("Worker:CalendarSync:Locked", "enabler_id", payload.EnablerID)
			return nil
		}
		return fmt.Errorf("reconcile %s: %s", payload.EnablerID, appErr.Message)
	}

	logger.Info("Worker:CalendarSync:Done",
		"enabler_id", payload.EnablerID,
		"synced", report.Synced,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return nil
}

func (h *Handler) HandleCalendarSyncAll(ctx context.Context, _ *asynq.Task) error {
	ids, err := h.calendarRepo.ListEnablerIDs(ctx)
	if err != nil {
		return fmt.Errorf("list enablers: %w", err)
	}

	for _, id := range ids {
		task, err := NewCalendarSyncTask(id)
		if err != nil {
			return err
		}
		if _, err := h.client.EnqueueContext(ctx, task); err != nil {
			return fmt.Errorf("enqueue sync for %s: %w", id, err)
		}
	}

	logger.Info("Worker:CalendarSyncAll:Enqueued", "enablers", len(ids))
	return nil
}

func (h *Handler) HandleWorkloadAnalyze(ctx context.Context, t *asynq.Task) error {
	var payload EnablerPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w: %w", TypeWorkloadAnalyze, err, asynq.SkipRetry)
	}

	if _, appErr := h.analyzer.AnalyzeWorkload(ctx, payload.EnablerID, schedulingentity.PeriodWeekly); appErr != nil {
		return fmt.Errorf("analyze %s: %s", payload.EnablerID, appErr.Message)
	}
	if _, appErr := h.analyzer.GenerateInsights(ctx, payload.EnablerID); appErr != nil {
		return fmt.Errorf("insights %s: %s", payload.EnablerID, appErr.Message)
	}

	logger.Info("Worker:WorkloadAnalyze:Done", "enabler_id", payload.EnablerID)
	return nil
}

func (h *Handler) HandleWorkloadAnalyzeAll(ctx context.Context, _ *asynq.Task) error {
	if appErr := h.analyzer.ExpireInsights(ctx); appErr != nil {
		logger.Error("Worker:WorkloadAnalyzeAll:Expire:Error", "error", appErr.Message)
	}

	ids, err := h.calendarRepo.ListEnablerIDs(ctx)
	if err != nil {
		return fmt.Errorf("list enablers: %w", err)
	}

	for _, id := range ids {
		task, err := NewWorkloadAnalyzeTask(id)
		if err != nil {
			return err
		}
		if _, err := h.client.EnqueueContext(ctx, task); err != nil {
			return fmt.Errorf("enqueue analyze for %s: %w", id, err)
		}
	}

	logger.Info("Worker:WorkloadAnalyzeAll:Enqueued", "enablers", len(ids))
	return nil
}
