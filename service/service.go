package service

import (
	"sync"

	"github.com/nkemjika/bookworm/config"
	"github.com/nkemjika/bookworm/internal/jsonlog"
	"github.com/nkemjika/bookworm/repository"
)

type Service interface {
	books
	reviews
	users
	tokens
	failedValidation(map[string]string) error
}

// service defines the business logic layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
}
