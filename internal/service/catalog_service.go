package service

import (
	"context"

	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/models"

	"github.com/rs/zerolog"
)

type CatalogService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewCatalogService(repo domain.Repository, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) ListServices(ctx context.Context, categoryID string) ([]*models.Service, error) {
	return s.repo.ListServicesByCategory(ctx, categoryID)
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	return s.repo.GetService(ctx, id)
}
