package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

const propertyColumns = `uid, project_uid, title, description, type,
			      area_range, price_range, status, created_at, updated_at`

func scanProperty(row interface{ Scan(dest ...any) error }) (*models.Property, error) {
	p := &models.Property{}
	if err := row.Scan(&p.UID, &p.ProjectUID, &p.Title, &p.Description,
		&p.Type, &p.AreaRange, &p.PriceRange, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProperty сохраняет новый объект недвижимости и возвращает его UID.
// Отсутствие проекта проявляется нарушением внешнего ключа и возвращается
// как ErrProjectNotFound.
func (s *Storage) CreateProperty(ctx context.Context, p models.Property) (string, error) {
	const op = "storage.CreateProperty"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.New().String()
	query := `INSERT INTO properties (uid, project_uid, title, description, type,
			      area_range, price_range, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.DB.ExecContext(ctx, query, newID, p.ProjectUID, p.Title,
		p.Description, p.Type, p.AreaRange, p.PriceRange, p.Status); err != nil {
		if isForeignKeyViolation(err) {
			return "", ErrProjectNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProperty возвращает объект по UID или ErrPropertyNotFound.
func (s *Storage) GetProperty(ctx context.Context, propertyUID string) (*models.Property, error) {
	const op = "storage.GetProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE uid = $1`
	p, err := scanProperty(s.DB.QueryRowContext(ctx, query, propertyUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPropertiesByProject возвращает объекты проекта.
func (s *Storage) ListPropertiesByProject(ctx context.Context, projectUID string) ([]models.Property, error) {
	const op = "storage.ListPropertiesByProject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + propertyColumns + ` FROM properties
			  WHERE project_uid = $1 ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, projectUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteProperty удаляет объект недвижимости.
func (s *Storage) DeleteProperty(ctx context.Context, propertyUID string) error {
	const op = "storage.DeleteProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM properties WHERE uid = $1`, propertyUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
