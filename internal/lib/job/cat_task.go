package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskCatCreated is the job type name stored in Redis.
	TaskCatCreated = "cat:created"
)

// CatCreatedPayload is the JSON payload of a cat:created task.
type CatCreatedPayload struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   int    `json:"age"`
}

// NewCatCreatedTask constructs the task announcing a new cat.
//
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("low"): notifications never compete with anything urgent
//   - Timeout(30s): kill the task if the handler runs longer
func NewCatCreatedTask(p CatCreatedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskCatCreated,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
