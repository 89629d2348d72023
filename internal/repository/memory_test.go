package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-cats/internal/config"
	"github.com/deppfellow/go-cats/internal/model"
	"github.com/deppfellow/go-cats/internal/server"
)

func age(v int) *int { return &v }

func TestMemoryCatRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewMemoryCatRepository()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	ctx := context.Background()
	first, err := repo.Create(ctx, model.CreateCatRequest{Name: "Tom", Age: age(3), Breed: "Tabby"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, model.CreateCatRequest{Name: "Luna", Age: age(0), Breed: "Siamese"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 0, second.Age)
	assert.Equal(t, fixed, first.CreatedAt)
}

func TestMemoryCatRepository_ListPreservesOrderAndCopies(t *testing.T) {
	repo := NewMemoryCatRepository()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Create(ctx, model.CreateCatRequest{Name: name, Age: age(1), Breed: "X"})
		require.NoError(t, err)
	}

	cats, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "A", cats[0].Name)
	assert.Equal(t, "C", cats[2].Name)

	cats[0].Name = "mutated"
	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)
}

func TestMemoryCatRepository_EmptyListIsNotNil(t *testing.T) {
	cats, err := NewMemoryCatRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestMemoryCatRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryCatRepository().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryCatRepository_ConcurrentCreate(t *testing.T) {
	repo := NewMemoryCatRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, model.CreateCatRequest{Name: "N", Age: age(1), Breed: "B"})
		}()
	}
	wg.Wait()

	cats, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 50)

	seen := make(map[int]bool, len(cats))
	for _, cat := range cats {
		assert.False(t, seen[cat.ID], "duplicate id %d", cat.ID)
		seen[cat.ID] = true
	}
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	repo := NewMemoryCatRepository()
	ctx := context.Background()

	n, err := Seed(ctx, repo, model.DefaultCats())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, repo, model.DefaultCats())
	require.NoError(t, err)
	assert.Zero(t, n)

	cats, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Tom", cats[0].Name)
	assert.Equal(t, "Luna", cats[1].Name)
}

func newTestServer(store string, seed bool) *server.Server {
	cfg := config.DefaultConfig()
	cfg.Cats.Store = store
	cfg.Cats.Seed = seed
	logger := zerolog.Nop()
	return &server.Server{Config: cfg, Logger: &logger}
}

func TestNewRepositories_MemorySeeded(t *testing.T) {
	repos, err := NewRepositories(context.Background(), newTestServer(config.StoreMemory, true))
	require.NoError(t, err)

	require.IsType(t, &MemoryCatRepository{}, repos.Cats)
	cats, err := repos.Cats.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestNewRepositories_SeedDisabled(t *testing.T) {
	repos, err := NewRepositories(context.Background(), newTestServer(config.StoreMemory, false))
	require.NoError(t, err)

	cats, err := repos.Cats.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestNewRepositories_PostgresWithoutDatabase(t *testing.T) {
	_, err := NewRepositories(context.Background(), newTestServer(config.StorePostgres, true))
	assert.Error(t, err)
}
