// Package user содержит логику бизнес-уровня управления учетными записями
// и избранным: список и карточка пользователя, обновление профиля с
// правилами доступа, удаление и операции с избранным.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Типизированные ошибки операций управления пользователями.
var (
	ErrNotAllowed        = errors.New("not authorized for this operation")
	ErrSelfDelete        = errors.New("cannot delete own account")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrDuplicateIdentity = errors.New("username or email already in use")
	ErrAlreadyFavourite  = errors.New("property already in favourites")
)

// UpdateRequest — частичное обновление профиля. Пустые строки означают
// "не менять". Для смены пароля требуются оба поля.
type UpdateRequest struct {
	Username    string
	Email       string
	Phone       string
	Role        string
	Password    string // Текущий пароль, обязателен при смене
	NewPassword string
}

// Repository описывает контракт хранилища пользователей и избранного.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userUID string) error
	AddFavourite(ctx context.Context, userUID, propertyUID string) (string, error)
	RemoveFavourite(ctx context.Context, userUID, propertyUID string) error
	ListFavourites(ctx context.Context, userUID string) ([]models.FavouriteEntry, error)
}

// Service реализует операции управления пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает публичные проекции всех пользователей.
func (s *Service) List(ctx context.Context) ([]models.PublicUser, error) {
	const op = "user.List"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

// Get возвращает публичную проекцию пользователя по UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.PublicUser, error) {
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Update применяет частичное обновление профиля targetUID от имени
// actorUID с ролью actorRole. Правила: менять профиль может сам
// пользователь или администратор; роль меняет только администратор;
// смена пароля требует действующий текущий пароль.
func (s *Service) Update(ctx context.Context, actorUID, actorRole, targetUID string, req UpdateRequest) (*models.PublicUser, error) {
	const op = "user.Update"

	u, err := s.repo.GetUser(ctx, targetUID)
	if err != nil {
		return nil, err
	}
	if actorUID != targetUID && actorRole != models.RoleAdmin {
		return nil, ErrNotAllowed
	}
	if req.Role != "" && actorRole != models.RoleAdmin {
		return nil, ErrNotAllowed
	}

	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Role != "" && models.ValidRole(req.Role) {
		u.Role = req.Role
	}
	if req.Password != "" && req.NewPassword != "" {
		if err := password.CompareHash(u.PasswordHash, req.Password); err != nil {
			return nil, ErrWrongPassword
		}
		hashed, err := password.GetHash(req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		u.PasswordHash = hashed
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pub := u.Public()
	return &pub, nil
}

// Delete удаляет пользователя targetUID. Удалять может только
// администратор, самоудаление запрещено.
func (s *Service) Delete(ctx context.Context, actorUID, actorRole, targetUID string) error {
	if actorUID == targetUID {
		return ErrSelfDelete
	}
	if actorRole != models.RoleAdmin {
		return ErrNotAllowed
	}
	return s.repo.DeleteUser(ctx, targetUID)
}

// AddFavourite добавляет объект в избранное пользователя.
func (s *Service) AddFavourite(ctx context.Context, userUID, propertyUID string) error {
	_, err := s.repo.AddFavourite(ctx, userUID, propertyUID)
	if errors.Is(err, repository.ErrDuplicateFavourite) {
		return ErrAlreadyFavourite
	}
	return err
}

// RemoveFavourite убирает объект из избранного пользователя.
func (s *Service) RemoveFavourite(ctx context.Context, userUID, propertyUID string) error {
	return s.repo.RemoveFavourite(ctx, userUID, propertyUID)
}

// ListFavourites возвращает избранное пользователя с данными объектов.
func (s *Service) ListFavourites(ctx context.Context, userUID string) ([]models.FavouriteEntry, error) {
	return s.repo.ListFavourites(ctx, userUID)
}
