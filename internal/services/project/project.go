// Package project содержит логику бизнес-уровня для проектов и объектов
// недвижимости. Список проектов отдается через кэш (cache-aside),
// мутации его инвалидируют.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

const (
	listCacheKey = "projects:list"
	listCacheTTL = 5 * time.Minute
)

// Repository описывает контракт хранилища проектов и объектов.
type Repository interface {
	CreateProject(ctx context.Context, p models.Project) (string, error)
	GetProject(ctx context.Context, projectUID string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, projectUID string) error
	CreateProperty(ctx context.Context, p models.Property) (string, error)
	ListPropertiesByProject(ctx context.Context, projectUID string) ([]models.Property, error)
	DeleteProperty(ctx context.Context, propertyUID string) error
}

// Cache описывает контракт кэша списков.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции над проектами.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все проекты, используя кэш. Проблемы кэша не фатальны:
// ошибка логируется и список читается из базы.
func (s *Service) List(ctx context.Context) ([]models.Project, error) {
	const op = "project.List"

	var cached []models.Project
	found, err := s.cache.Get(listCacheKey, &cached)
	if err != nil {
		s.log.Error("failed to read projects cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(listCacheKey, projects, listCacheTTL); err != nil {
		s.log.Error("failed to write projects cache", sl.Err(err))
	}
	return projects, nil
}

// Get возвращает проект вместе с его объектами.
func (s *Service) Get(ctx context.Context, projectUID string) (*models.ProjectWithProperties, error) {
	const op = "project.Get"

	p, err := s.repo.GetProject(ctx, projectUID)
	if err != nil {
		return nil, err
	}
	properties, err := s.repo.ListPropertiesByProject(ctx, projectUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.ProjectWithProperties{Project: *p, Properties: properties}, nil
}

// Create сохраняет новый проект и инвалидирует кэш списка.
func (s *Service) Create(ctx context.Context, p models.Project) (string, error) {
	uid, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		return "", err
	}
	s.invalidateList()
	return uid, nil
}

// Update обновляет проект и инвалидирует кэш списка.
func (s *Service) Update(ctx context.Context, p *models.Project) error {
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return err
	}
	s.invalidateList()
	return nil
}

// Delete удаляет проект вместе с объектами и инвалидирует кэш списка.
func (s *Service) Delete(ctx context.Context, projectUID string) error {
	if err := s.repo.DeleteProject(ctx, projectUID); err != nil {
		return err
	}
	s.invalidateList()
	return nil
}

// AddProperty сохраняет объект недвижимости в проекте.
func (s *Service) AddProperty(ctx context.Context, p models.Property) (string, error) {
	if p.Status == "" {
		p.Status = models.StatusAvailable
	}
	uid, err := s.repo.CreateProperty(ctx, p)
	if err != nil {
		return "", err
	}
	s.invalidateList()
	return uid, nil
}

// RemoveProperty удаляет объект недвижимости.
func (s *Service) RemoveProperty(ctx context.Context, propertyUID string) error {
	if err := s.repo.DeleteProperty(ctx, propertyUID); err != nil {
		return err
	}
	s.invalidateList()
	return nil
}

func (s *Service) invalidateList() {
	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Error("failed to invalidate projects cache", sl.Err(err))
	}
}
