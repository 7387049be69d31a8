// Package auth содержит логику бизнес-уровня аутентификации: регистрацию,
// вход, выдачу и проверку кодов подтверждения и сброс пароля по коду.
//
// Ожидаемые отказы (занятый email, неверный пароль, истекший код) выражены
// типизированными ошибками и сопоставляются обработчиками с 4xx-ответами;
// ошибки хранилища, хэширования и выдачи токена поднимаются как есть
// и превращаются в 500. Сервис ничего не повторяет сам.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	libjwt "github.com/magabrotheeeer/estate-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/services/mailer"
	"github.com/magabrotheeeer/estate-aggregator/internal/services/otp"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// Типизированные ошибки операций аутентификации.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoOTPPending       = errors.New("no otp found for this user")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrOTPMismatch        = errors.New("invalid otp")
)

// RoleMismatchError возвращается входом, когда ожидаемая клиентом роль
// не совпадает с ролью учетной записи.
type RoleMismatchError struct {
	Role string // Роль, сохраненная за учетной записью
}

func (e *RoleMismatchError) Error() string {
	return "access denied for role: " + e.Role
}

// DeliveryError возвращается, когда код выдан и сохранен, но доставка
// письма не удалась. Message — готовый текст для клиента.
type DeliveryError struct {
	Message string
	Err     error
}

func (e *DeliveryError) Error() string {
	return "otp delivery failed: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordAndClearOTP(ctx context.Context, userUID, passwordHash string) error
}

// OTPEngine описывает выдачу и проверку кодов подтверждения.
type OTPEngine interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Validate(ctx context.Context, user *models.User, supplied string) (otp.Outcome, error)
}

// Mailer описывает доставку кода подтверждения.
type Mailer interface {
	SendOTP(email, code string) error
}

// EventPublisher публикует событие регистрации для отправки
// приветственного письма.
type EventPublisher interface {
	PublishUserRegistered(username, email string) error
}

// Service отвечает за регистрацию, авторизацию и жизненный цикл OTP.
type Service struct {
	users    UserRepository
	otp      OTPEngine
	mailer   Mailer
	events   EventPublisher
	jwtMaker libjwt.Maker
	log      *slog.Logger
}

// NewService создает новый экземпляр Service. events может быть nil,
// если очередь уведомлений не подключена.
func NewService(users UserRepository, otpEngine OTPEngine, mailer Mailer,
	events EventPublisher, jwtMaker libjwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		otp:      otpEngine,
		mailer:   mailer,
		events:   events,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Signup создает нового пользователя. Недопустимая или пустая роль
// заменяется на buyer, пароль хэшируется до записи. Предварительные
// проверки занятости email и username — только быстрый путь: финальным
// арбитром конфликтов служат уникальные индексы базы.
func (s *Service) Signup(ctx context.Context, username, email, rawPassword, phone, role string) (string, error) {
	const op = "auth.Signup"

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.ResolveRole(role),
		Phone:        phone,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return "", ErrEmailTaken
	}
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return "", ErrUsernameTaken
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if s.events != nil {
		if err := s.events.PublishUserRegistered(username, email); err != nil {
			// Приветственное письмо не влияет на результат регистрации.
			s.log.Error("failed to publish user registered event", sl.Err(err))
		}
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT с его UID и ролью.
// Если expectedRole задана и не совпадает с ролью учетной записи,
// возвращается *RoleMismatchError.
func (s *Service) Login(ctx context.Context, email, rawPassword, expectedRole string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, ErrUserNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if expectedRole != "" && user.Role != expectedRole {
		return "", nil, &RoleMismatchError{Role: user.Role}
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// SendOTP выдает пользователю новый код подтверждения и отправляет его
// письмом. Каждый вызов перезаписывает ранее выданный код. При сбое
// доставки код остается сохраненным, а вызывающему возвращается
// *DeliveryError с классифицированным сообщением.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	const op = "auth.SendOTP"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	code, err := s.otp.Issue(ctx, user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		s.log.Error("failed to send otp email", slog.String("email", email), sl.Err(err))
		return &DeliveryError{Message: mailer.ClassifyDeliveryError(err), Err: err}
	}
	return nil
}

// ValidateOTP проверяет код без каких-либо изменений пароля. Истекший код
// сбрасывается движком как побочный эффект проверки; совпавший код
// остается действительным.
func (s *Service) ValidateOTP(ctx context.Context, email, suppliedCode string) error {
	const op = "auth.ValidateOTP"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := s.otp.Validate(ctx, user, suppliedCode)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return outcomeToError(outcome)
}

// ResetPassword заменяет пароль пользователя после успешной проверки кода.
// Новый хэш записывается вместе со сбросом OTP-полей одной операцией:
// код потребляется сбросом.
func (s *Service) ResetPassword(ctx context.Context, email, suppliedCode, newPassword string) error {
	const op = "auth.ResetPassword"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := s.otp.Validate(ctx, user, suppliedCode)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if outcomeErr := outcomeToError(outcome); outcomeErr != nil {
		return outcomeErr
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePasswordAndClearOTP(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func outcomeToError(outcome otp.Outcome) error {
	switch outcome {
	case otp.OutcomeNoOTPPending:
		return ErrNoOTPPending
	case otp.OutcomeExpired:
		return ErrOTPExpired
	case otp.OutcomeMismatch:
		return ErrOTPMismatch
	}
	return nil
}
