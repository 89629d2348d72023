package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/lib/email"
)

type fakeNotifier struct {
	to   string
	sent []email.CatCreated
	err  error
}

func (f *fakeNotifier) SendCatCreatedEmail(to string, cat email.CatCreated) error {
	f.to = to
	f.sent = append(f.sent, cat)
	return f.err
}

func newTestJobService(notifier Notifier, notifyEmail string) *JobService {
	logger := zerolog.Nop()
	return &JobService{logger: &logger, notifier: notifier, notifyEmail: notifyEmail}
}

func TestNewCatCreatedTask(t *testing.T) {
	task, err := NewCatCreatedTask(CatCreatedPayload{ID: 7, Name: "Kit", Breed: "Maine Coon", Age: 2})
	require.NoError(t, err)

	assert.Equal(t, TaskCatCreated, task.Type())

	var p CatCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "Kit", p.Name)
}

func TestHandleCatCreatedTask_SendsEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	j := newTestJobService(notifier, "owner@example.com")

	task, err := NewCatCreatedTask(CatCreatedPayload{ID: 3, Name: "Tom", Breed: "Siamese", Age: 4})
	require.NoError(t, err)

	require.NoError(t, j.handleCatCreatedTask(context.Background(), task))

	assert.Equal(t, "owner@example.com", notifier.to)
	assert.Equal(t, []email.CatCreated{{ID: 3, Name: "Tom", Breed: "Siamese", Age: 4}}, notifier.sent)
}

func TestHandleCatCreatedTask_NoRecipientSkips(t *testing.T) {
	notifier := &fakeNotifier{}
	j := newTestJobService(notifier, "")

	task, err := NewCatCreatedTask(CatCreatedPayload{ID: 1, Name: "Tom"})
	require.NoError(t, err)

	require.NoError(t, j.handleCatCreatedTask(context.Background(), task))
	assert.Empty(t, notifier.sent)
}

func TestHandleCatCreatedTask_SendFailureIsRetried(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("provider down")}
	j := newTestJobService(notifier, "owner@example.com")

	task, err := NewCatCreatedTask(CatCreatedPayload{ID: 1, Name: "Tom"})
	require.NoError(t, err)

	err = j.handleCatCreatedTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleCatCreatedTask_BadPayloadSkipsRetry(t *testing.T) {
	j := newTestJobService(&fakeNotifier{}, "owner@example.com")

	err := j.handleCatCreatedTask(context.Background(), asynq.NewTask(TaskCatCreated, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestNewJobService_RequiresRedis(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewJobService(&logger, config.DefaultConfig())
	require.Error(t, err)
}
