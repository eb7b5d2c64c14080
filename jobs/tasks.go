// Package jobs hosts background task definitions and the Asynq worker
// that runs them.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTrashPurge hard-deletes soft-deleted records past retention.
	TaskTrashPurge = "trash:purge"
)

// TrashPurgePayload parameterizes a purge run.
type TrashPurgePayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// NewTrashPurgeTask constructs an Asynq task. Each enqueue gets a unique
// task id so manual runs never collide with the scheduled one.
func NewTrashPurgeTask(payload TrashPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrashPurge, data, asynq.TaskID(uuid.NewString()), asynq.Queue(QueueDefault)), nil
}
