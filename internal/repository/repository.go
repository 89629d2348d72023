// Package repository handles all interactions with the cat store.
//
// It contains the storage implementations behind CatRepository and hides
// whether cats live in process memory or in PostgreSQL from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/go-cats/internal/model"
)

// CatRepository is the storage contract the service layer depends on.
//
// Implementations must:
//   - be safe for concurrent use (requests run on many goroutines)
//   - list cats in creation order
//   - assign ids themselves
type CatRepository interface {
	Create(ctx context.Context, req model.CreateCatRequest) (model.Cat, error)
	List(ctx context.Context) ([]model.Cat, error)
}
