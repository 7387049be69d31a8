// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей, проектов, объектов недвижимости и избранного.
// Уникальные индексы таблиц служат авторитетным сигналом конфликтов:
// нарушение классифицируется по имени ограничения и поднимается наверх
// типизированной ошибкой.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Типизированные ошибки хранилища. Сервисный слой сопоставляет их
// с ответами клиенту, не заглядывая в SQLSTATE.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateFavourite = errors.New("property already in favourites")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// classifyUnique превращает нарушение уникального индекса в типизированную
// ошибку по имени ограничения. Прочие ошибки возвращаются как есть.
func classifyUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "users_username_key":
		return ErrDuplicateUsername
	case "favourites_user_property_key":
		return ErrDuplicateFavourite
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
