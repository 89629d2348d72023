package repository

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/go-cats/internal/model"
)

// MemoryCatRepository keeps cats in a slice guarded by a RWMutex.
//
// Ids start at 1 and only ever grow. Callers always receive copies, so
// mutating a returned slice never touches the store.
type MemoryCatRepository struct {
	mu     sync.RWMutex
	cats   []model.Cat
	nextID int
	now    func() time.Time
}

func NewMemoryCatRepository() *MemoryCatRepository {
	return &MemoryCatRepository{
		nextID: 1,
		now:    time.Now,
	}
}

func (r *MemoryCatRepository) Create(ctx context.Context, req model.CreateCatRequest) (model.Cat, error) {
	if err := ctx.Err(); err != nil {
		return model.Cat{}, err
	}

	age := 0
	if req.Age != nil {
		age = *req.Age
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cat := model.Cat{
		ID:        r.nextID,
		Name:      req.Name,
		Age:       age,
		Breed:     req.Breed,
		CreatedAt: r.now().UTC(),
	}
	r.nextID++
	r.cats = append(r.cats, cat)

	return cat, nil
}

func (r *MemoryCatRepository) List(ctx context.Context) ([]model.Cat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Cat, len(r.cats))
	copy(out, r.cats)
	return out, nil
}
