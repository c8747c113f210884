// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и даты создания/обновления.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Любая другая строка в поле Role невалидна,
// ограничение продублировано CHECK-ом в схеме базы.
const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// PasswordHash не покидает слои storage и services.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Отображаемое имя, 2–100 символов
	Email        string    // Электронная почта (уникальная, нормализованная)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата создания записи
	UpdatedAt    time.Time // Дата последнего изменения
}

// PublicUser — представление пользователя для ответов API,
// без хэша пароля и служебных полей.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public возвращает безопасное для выдачи наружу представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.UID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
