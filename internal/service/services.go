package service

import (
	"github.com/deppfellow/go-cats/internal/repository"
	"github.com/deppfellow/go-cats/internal/server"
)

// Services groups every business-logic service handlers depend on.
type Services struct {
	Cats *CatService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// Created cats are only announced when the job worker runs.
	var enqueuer Enqueuer
	if s.Job != nil {
		enqueuer = s.Job.Client
	}

	return &Services{
		Cats: NewCatService(s, repos.Cats, enqueuer),
	}, nil
}
