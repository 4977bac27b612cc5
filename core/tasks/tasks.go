package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names. The *All variants are fleet sweeps that fan out one
// per-enabler task each.
const (
	TypeCalendarSync       = "calendar:sync"
	TypeCalendarSyncAll    = "calendar:sync_all"
	TypeWorkloadAnalyze    = "scheduling:analyze"
	TypeWorkloadAnalyzeAll = "scheduling:analyze_all"
)

type EnablerPayload struct {
	EnablerID uuid.UUID `json:"enabler_id"`
}

func NewCalendarSyncTask(enablerID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(EnablerPayload{EnablerID: enablerID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarSync, payload), nil
}

func NewCalendarSyncAllTask() *asynq.Task {
	return asynq.NewTask(TypeCalendarSyncAll, nil)
}

func NewWorkloadAnalyzeTask(enablerID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(EnablerPayload{EnablerID: enablerID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWorkloadAnalyze, payload), nil
}

func NewWorkloadAnalyzeAllTask() *asynq.Task {
	return asynq.NewTask(TypeWorkloadAnalyzeAll, nil)
}
