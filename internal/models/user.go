// Package models содержит доменные модели платформы недвижимости:
// пользователей, проекты, объекты недвижимости и избранное.
package models

import "time"

// Роли пользователей системы.
const (
	RoleBuyer  = "buyer"
	RoleBroker = "broker"
	RoleAdmin  = "admin"
)

// ValidRole сообщает, является ли строка допустимой ролью.
func ValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleBroker, RoleAdmin:
		return true
	}
	return false
}

// ResolveRole возвращает переданную роль, если она допустима,
// иначе роль по умолчанию — buyer.
func ResolveRole(role string) string {
	if ValidRole(role) {
		return role
	}
	return RoleBuyer
}

// User представляет зарегистрированного пользователя системы.
// OTPCode и OTPExpiry либо оба заданы, либо оба nil: код без срока
// действия (и наоборот) в базе не существует.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Username     string     // Имя пользователя (уникальное)
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля пользователя
	Role         string     // Роль: buyer, broker или admin
	Phone        string     // Контактный телефон
	OTPCode      *string    // Код подтверждения, если выдан
	OTPExpiry    *time.Time // Срок действия кода подтверждения
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser — публичная проекция пользователя без пароля и OTP-полей.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// Public возвращает проекцию пользователя, пригодную для ответа клиенту.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.UID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Phone:    u.Phone,
	}
}
