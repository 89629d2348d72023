package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/go-cats/internal/lib/email"
)

// handleCatCreatedTask processes a cat:created task.
//
// Without a notify address the task is only logged. A returned error makes
// Asynq retry the task.
func (j *JobService) handleCatCreatedTask(ctx context.Context, t *asynq.Task) error {
	var p CatCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal cat created payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskCatCreated).
		Int("cat_id", p.ID).
		Str("cat_name", p.Name).
		Logger()

	log.Info().Msg("Processing cat created task")

	if j.notifyEmail == "" {
		log.Info().Msg("No notify address configured, skipping notification")
		return nil
	}

	err := j.notifier.SendCatCreatedEmail(j.notifyEmail, email.CatCreated{
		ID:    p.ID,
		Name:  p.Name,
		Breed: p.Breed,
		Age:   p.Age,
	})
	if err != nil {
		log.Error().Err(err).Str("to", j.notifyEmail).Msg("Failed to send cat created email")
		return err
	}

	log.Info().Str("to", j.notifyEmail).Msg("Successfully sent cat created email")
	return nil
}
