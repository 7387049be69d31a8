// Package otp реализует выдачу и проверку одноразовых кодов подтверждения,
// привязанных к записи пользователя.
//
// Код — шестизначный, срок действия задается при создании сервиса
// (по умолчанию 10 минут). Код и срок действия хранятся вместе на записи
// пользователя: либо оба заданы, либо оба NULL. Истекший код вычищается
// лениво при первой проверке, отдельного фонового процесса нет.
//
// Успешная проверка код не сбрасывает: он остается действительным до
// истечения срока или до сброса пароля, который его потребляет. Это
// повторяет наблюдаемое поведение клиентских приложений; одноразовое
// потребление при проверке было бы строже, но меняет внешний контракт.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Outcome — результат проверки кода подтверждения.
type Outcome int

const (
	// OutcomeValid — код совпал и не истек.
	OutcomeValid Outcome = iota
	// OutcomeNoOTPPending — для пользователя нет выданного кода.
	OutcomeNoOTPPending
	// OutcomeExpired — срок действия кода истек; поля сброшены.
	OutcomeExpired
	// OutcomeMismatch — переданный код не совпал с выданным.
	OutcomeMismatch
)

// UserRepository описывает операции хранилища над OTP-полями пользователя.
type UserRepository interface {
	SetOTP(ctx context.Context, userUID, code string, expiry time.Time) error
	ClearOTP(ctx context.Context, userUID string) error
}

// Service выдает и проверяет коды подтверждения.
type Service struct {
	users UserRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewService создает новый экземпляр Service со сроком действия кодов ttl.
func NewService(users UserRepository, ttl time.Duration) *Service {
	return &Service{
		users: users,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Generate возвращает шестизначный код из диапазона [100000, 999999],
// равномерно распределенный, без сжатия ведущих нулей.
func (s *Service) Generate() (string, error) {
	const op = "otp.Generate"
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue выдает пользователю новый код: генерирует, записывает в хранилище
// вместе со сроком действия и отражает изменение на переданной записи.
// Повторный вызов перезаписывает ранее выданный код. Доставка кода —
// отдельный шаг, Issue ее не выполняет.
func (s *Service) Issue(ctx context.Context, user *models.User) (string, error) {
	const op = "otp.Issue"
	code, err := s.Generate()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	expiry := s.now().Add(s.ttl)
	if err := s.users.SetOTP(ctx, user.UID, code, expiry); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user.OTPCode = &code
	user.OTPExpiry = &expiry
	return code, nil
}

// Validate проверяет переданный код против записи пользователя.
//
// Часы читаются один раз на вызов. Граница срока действия исключающая:
// истекшим считается код с expiry строго раньше текущего момента.
// Обнаружив истекший код, Validate сбрасывает OTP-поля в хранилище
// до возврата результата; последующая проверка без новой выдачи даст
// OutcomeNoOTPPending. На OutcomeValid состояние не меняется.
func (s *Service) Validate(ctx context.Context, user *models.User, supplied string) (Outcome, error) {
	const op = "otp.Validate"
	now := s.now()

	if user.OTPCode == nil || user.OTPExpiry == nil {
		return OutcomeNoOTPPending, nil
	}
	if user.OTPExpiry.Before(now) {
		if err := s.users.ClearOTP(ctx, user.UID); err != nil {
			return OutcomeExpired, fmt.Errorf("%s: %w", op, err)
		}
		user.OTPCode = nil
		user.OTPExpiry = nil
		return OutcomeExpired, nil
	}
	if *user.OTPCode != supplied {
		return OutcomeMismatch, nil
	}
	return OutcomeValid, nil
}
