package services

import (
	"database/sql"
	"errors"

	"flowmarket/internal/domain"
	"flowmarket/internal/repos"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

type CatalogService struct {
	Workflows *repos.WorkflowRepo
}

func NewCatalogService(workflows *repos.WorkflowRepo) *CatalogService {
	return &CatalogService{Workflows: workflows}
}

func (s *CatalogService) BySlug(slug string) (domain.Workflow, error) {
	w, err := s.Workflows.BySlug(slug)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Workflow{}, ErrWorkflowNotFound
	}
	return w, err
}

func (s *CatalogService) ListActive(category string) ([]domain.Workflow, error) {
	return s.Workflows.ListActive(category)
}

func (s *CatalogService) Categories() ([]string, error) {
	return s.Workflows.Categories()
}

func (s *CatalogService) SetPrice(slug string, price int64) error {
	err := s.Workflows.UpdatePrice(slug, price)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrWorkflowNotFound
	}
	return err
}
