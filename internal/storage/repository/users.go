package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

const userColumns = `uid, username, email, password_hash, role, phone,
			      otp_code, otp_expiry, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var otpCode sql.NullString
	var otpExpiry sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.Phone, &otpCode, &otpExpiry, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if otpCode.Valid {
		u.OTPCode = &otpCode.String
	}
	if otpExpiry.Valid {
		u.OTPExpiry = &otpExpiry.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Дубликат email или username возвращается как ErrDuplicateEmail /
// ErrDuplicateUsername.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.New().String()
	query := `INSERT INTO users (uid, username, email, password_hash, role, phone)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.DB.ExecContext(ctx, query,
		newID, user.Username, user.Email, user.PasswordHash, user.Role, user.Phone); err != nil {
		if classified := classifyUnique(err); classified != err {
			return "", classified
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email или ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по username или ErrUserNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser обновляет профиль пользователя: username, email, phone, role
// и хэш пароля. Дубликаты классифицируются как при создании.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = $1, email = $2, phone = $3, role = $4,
			      password_hash = $5, updated_at = now()
			  WHERE uid = $6`
	res, err := s.DB.ExecContext(ctx, query,
		user.Username, user.Email, user.Phone, user.Role, user.PasswordHash, user.UID)
	if err != nil {
		if classified := classifyUnique(err); classified != err {
			return classified
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser удаляет пользователя по UID.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetOTP записывает код подтверждения и срок его действия одной командой:
// оба поля меняются атомарно в пределах строки.
func (s *Storage) SetOTP(ctx context.Context, userUID, code string, expiry time.Time) error {
	const op = "storage.SetOTP"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET otp_code = $1, otp_expiry = $2, updated_at = now()
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, code, expiry, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearOTP сбрасывает оба OTP-поля в NULL.
func (s *Storage) ClearOTP(ctx context.Context, userUID string) error {
	const op = "storage.ClearOTP"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET otp_code = NULL, otp_expiry = NULL, updated_at = now()
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePasswordAndClearOTP заменяет хэш пароля и сбрасывает OTP-поля
// одной командой, без промежуточного состояния.
func (s *Storage) UpdatePasswordAndClearOTP(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePasswordAndClearOTP"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, otp_code = NULL, otp_expiry = NULL, updated_at = now()
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
