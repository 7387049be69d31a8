package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// AddFavourite сохраняет объект в избранное пользователя. Повторное
// добавление возвращает ErrDuplicateFavourite, несуществующий объект —
// ErrPropertyNotFound.
func (s *Storage) AddFavourite(ctx context.Context, userUID, propertyUID string) (string, error) {
	const op = "storage.AddFavourite"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.New().String()
	query := `INSERT INTO favourites (uid, user_uid, property_uid)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, newID, userUID, propertyUID); err != nil {
		if classified := classifyUnique(err); classified != err {
			return "", classified
		}
		if isForeignKeyViolation(err) {
			return "", ErrPropertyNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// RemoveFavourite убирает объект из избранного пользователя.
func (s *Storage) RemoveFavourite(ctx context.Context, userUID, propertyUID string) error {
	const op = "storage.RemoveFavourite"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM favourites WHERE user_uid = $1 AND property_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, userUID, propertyUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// ListFavourites возвращает избранное пользователя вместе с данными объектов.
func (s *Storage) ListFavourites(ctx context.Context, userUID string) ([]models.FavouriteEntry, error) {
	const op = "storage.ListFavourites"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT f.uid, f.user_uid, f.property_uid, f.created_at,
			      p.uid, p.project_uid, p.title, p.description, p.type,
			      p.area_range, p.price_range, p.status, p.created_at, p.updated_at
			  FROM favourites f
			  JOIN properties p ON p.uid = f.property_uid
			  WHERE f.user_uid = $1
			  ORDER BY f.created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []models.FavouriteEntry
	for rows.Next() {
		var e models.FavouriteEntry
		if err = rows.Scan(&e.UID, &e.UserUID, &e.PropertyUID, &e.CreatedAt,
			&e.Property.UID, &e.Property.ProjectUID, &e.Property.Title,
			&e.Property.Description, &e.Property.Type, &e.Property.AreaRange,
			&e.Property.PriceRange, &e.Property.Status,
			&e.Property.CreatedAt, &e.Property.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
