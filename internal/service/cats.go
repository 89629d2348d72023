package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/errs"
	"github.com/deppfellow/go-cats/internal/lib/job"
	"github.com/deppfellow/go-cats/internal/model"
	"github.com/deppfellow/go-cats/internal/repository"
	"github.com/deppfellow/go-cats/internal/server"
)

// Enqueuer puts background tasks on the queue. *asynq.Client implements it.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CatService holds the cat use cases.
//
// It knows nothing about HTTP: it receives plain values and returns plain
// values or *errs.HTTPError, and the handler layer turns those into responses.
type CatService struct {
	repo      repository.CatRepository
	enqueuer  Enqueuer
	listDelay time.Duration
	logger    *zerolog.Logger
}

// NewCatService wires a CatService. enqueuer may be nil, in which case no
// cat:created task is ever scheduled.
func NewCatService(s *server.Server, repo repository.CatRepository, enqueuer Enqueuer) *CatService {
	return &CatService{
		repo:      repo,
		enqueuer:  enqueuer,
		listDelay: s.Config.Cats.ListDelay,
		logger:    s.Logger,
	}
}

// FindAll waits for the configured list delay and then returns every cat.
//
// The wait is raced against ctx, so a client that goes away stops the timer
// and the caller gets ctx.Err() back.
func (cs *CatService) FindAll(ctx context.Context) ([]model.Cat, error) {
	if cs.listDelay > 0 {
		timer := time.NewTimer(cs.listDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return cs.repo.List(ctx)
}

// FindOne describes the cat the id points at. It does not touch the store.
func (cs *CatService) FindOne(_ context.Context, id string) (string, error) {
	return fmt.Sprintf("This action returns a #%s cat", id), nil
}

// Create stores a new cat and, when a queue is configured, schedules the
// cat:created notification. A failed enqueue is logged and otherwise ignored:
// the cat already exists at that point.
func (cs *CatService) Create(ctx context.Context, req *model.CreateCatRequest) (model.Cat, error) {
	cat, err := cs.repo.Create(ctx, *req)
	if err != nil {
		return model.Cat{}, err
	}

	log := cs.loggerFrom(ctx)
	log.Info().Int("cat_id", cat.ID).Str("cat_name", cat.Name).Msg("cat created")

	if cs.enqueuer == nil {
		return cat, nil
	}

	task, err := job.NewCatCreatedTask(job.CatCreatedPayload{
		ID:    cat.ID,
		Name:  cat.Name,
		Breed: cat.Breed,
		Age:   cat.Age,
	})
	if err != nil {
		log.Error().Err(err).Int("cat_id", cat.ID).Msg("failed to build cat created task")
		return cat, nil
	}

	info, err := cs.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		log.Error().Err(err).Int("cat_id", cat.ID).Msg("failed to enqueue cat created task")
		return cat, nil
	}

	log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("cat created task enqueued")
	return cat, nil
}

// Fail always refuses the request.
func (cs *CatService) Fail(_ context.Context) error {
	return errs.NewForbiddenError("Forbidden", false)
}

// loggerFrom prefers the request-scoped logger stored in ctx by the
// ContextEnhancer middleware and falls back to the application logger.
func (cs *CatService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if log := zerolog.Ctx(ctx); log.GetLevel() != zerolog.Disabled {
		return log
	}
	return cs.logger
}
