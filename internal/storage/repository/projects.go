package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// CreateProject сохраняет новый проект и возвращает его UID.
func (s *Storage) CreateProject(ctx context.Context, p models.Project) (string, error) {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.New().String()
	query := `INSERT INTO projects (uid, name, description, longitude, latitude, developer)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		newID, p.Name, p.Description, p.Longitude, p.Latitude, p.Developer); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProject возвращает проект по UID или ErrProjectNotFound.
func (s *Storage) GetProject(ctx context.Context, projectUID string) (*models.Project, error) {
	const op = "storage.GetProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, longitude, latitude, developer, created_at, updated_at
			  FROM projects WHERE uid = $1`
	p := &models.Project{}
	err := s.DB.QueryRowContext(ctx, query, projectUID).Scan(&p.UID, &p.Name,
		&p.Description, &p.Longitude, &p.Latitude, &p.Developer, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProjects возвращает все проекты.
func (s *Storage) ListProjects(ctx context.Context) ([]models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, longitude, latitude, developer, created_at, updated_at
			  FROM projects ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []models.Project
	for rows.Next() {
		var p models.Project
		if err = rows.Scan(&p.UID, &p.Name, &p.Description, &p.Longitude,
			&p.Latitude, &p.Developer, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProject обновляет поля проекта.
func (s *Storage) UpdateProject(ctx context.Context, p *models.Project) error {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET name = $1, description = $2, longitude = $3, latitude = $4,
			      developer = $5, updated_at = now()
			  WHERE uid = $6`
	res, err := s.DB.ExecContext(ctx, query,
		p.Name, p.Description, p.Longitude, p.Latitude, p.Developer, p.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// DeleteProject удаляет проект вместе с его объектами (ON DELETE CASCADE).
func (s *Storage) DeleteProject(ctx context.Context, projectUID string) error {
	const op = "storage.DeleteProject"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE uid = $1`, projectUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
