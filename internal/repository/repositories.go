package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/model"
	"github.com/deppfellow/go-cats/internal/server"
)

// Repositories is a container for all repository instances.
//
// Services receive the container instead of individual repositories so that
// adding a new resource does not change every constructor signature.
type Repositories struct {
	Cats CatRepository
}

// NewRepositories constructs the repository container.
//
// The cat store is picked from cats.store:
//   - memory (default): a process-local MemoryCatRepository
//   - postgres: a PostgresCatRepository on s.DB.Pool
//
// When cats.seed is on and the store is empty, the default cats are inserted
// so a fresh process always lists the same two cats.
func NewRepositories(ctx context.Context, s *server.Server) (*Repositories, error) {
	var cats CatRepository

	switch s.Config.Cats.Store {
	case config.StorePostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("cats.store=%s but no database connection is configured", config.StorePostgres)
		}
		cats = NewPostgresCatRepository(s.DB.Pool)
	default:
		cats = NewMemoryCatRepository()
	}

	if s.Config.Cats.Seed {
		seeded, err := Seed(ctx, cats, model.DefaultCats())
		if err != nil {
			return nil, fmt.Errorf("failed to seed cats: %w", err)
		}
		if seeded > 0 {
			s.Logger.Info().Int("count", seeded).Str("store", s.Config.Cats.Store).Msg("seeded cat store")
		}
	}

	return &Repositories{Cats: cats}, nil
}

// Seed inserts cats into repo if, and only if, repo is empty.
// It returns how many cats were inserted.
func Seed(ctx context.Context, repo CatRepository, cats []model.CreateCatRequest) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, cat := range cats {
		if _, err := repo.Create(ctx, cat); err != nil {
			return 0, err
		}
	}

	return len(cats), nil
}
