package model

import (
	"time"

	"github.com/deppfellow/go-cats/internal/validation"
)

// Cat is a stored cat.
type Cat struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Breed     string    `json:"breed"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCatRequest is the body of POST /cats.
//
// Age is a pointer so that a missing age and an age of 0 can be told apart.
type CreateCatRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=64"`
	Age   *int   `json:"age" validate:"required,min=0,max=40"`
	Breed string `json:"breed" validate:"required,min=1,max=64"`
}

func (r *CreateCatRequest) Validate() error {
	return validation.Struct(r)
}

// GetCatRequest carries the :id path parameter of GET /cats/:id.
type GetCatRequest struct {
	ID string `param:"id" validate:"required,max=64"`
}

func (r *GetCatRequest) Validate() error {
	return validation.Struct(r)
}

// EmptyRequest is used by routes that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// DefaultCats are the two cats a fresh store is seeded with.
func DefaultCats() []CreateCatRequest {
	return []CreateCatRequest{
		{Name: "Tom", Age: intPtr(3), Breed: "Domestic Shorthair"},
		{Name: "Luna", Age: intPtr(5), Breed: "Siamese"},
	}
}

func intPtr(v int) *int {
	return &v
}
