package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-cats/internal/model"
)

// PostgresCatRepository stores cats in the cats table created by the
// database migrations. The serial id column gives creation order.
type PostgresCatRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCatRepository(pool *pgxpool.Pool) *PostgresCatRepository {
	return &PostgresCatRepository{pool: pool}
}

func (r *PostgresCatRepository) Create(ctx context.Context, req model.CreateCatRequest) (model.Cat, error) {
	const stmt = `
		INSERT INTO cats (name, age, breed)
		VALUES (@name, @age, @breed)
		RETURNING id, name, age, breed, created_at`

	// Age is nil only if validation was skipped; the NOT NULL constraint
	// then reports it through sqlerr.
	row := r.pool.QueryRow(ctx, stmt, pgx.NamedArgs{
		"name":  req.Name,
		"age":   req.Age,
		"breed": req.Breed,
	})

	cat, err := scanCat(row)
	if err != nil {
		return model.Cat{}, errors.Wrap(err, "failed to insert cat")
	}
	return cat, nil
}

func (r *PostgresCatRepository) List(ctx context.Context) ([]model.Cat, error) {
	const stmt = `SELECT id, name, age, breed, created_at FROM cats ORDER BY id`

	rows, err := r.pool.Query(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cats")
	}

	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Cat, error) {
		return scanCat(row)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect cats")
	}

	// An empty table lists as [] in JSON, never null.
	if cats == nil {
		cats = []model.Cat{}
	}
	return cats, nil
}

func scanCat(row pgx.Row) (model.Cat, error) {
	var cat model.Cat
	err := row.Scan(&cat.ID, &cat.Name, &cat.Age, &cat.Breed, &cat.CreatedAt)
	return cat, err
}
