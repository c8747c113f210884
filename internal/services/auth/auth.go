// Package auth содержит логику бизнес-уровня для регистрации,
// входа и аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/auth-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/password"
	"github.com/magabrotheeeer/auth-gateway/internal/models"
	"github.com/magabrotheeeer/auth-gateway/internal/storage"
)

// ErrInvalidCredentials — единый ответ на неизвестный email и на неверный
// пароль. Различать эти случаи наружу нельзя: это раскрывало бы,
// какие адреса зарегистрированы.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// SaveUser сохраняет нового пользователя, дубликат email — storage.ErrUserExists.
	SaveUser(ctx context.Context, user models.User) (*models.User, error)

	// FindUserByEmail возвращает пользователя или storage.ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и аутентификацию по JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// NormalizeEmail приводит email к каноническому виду: без краевых
// пробелов, в нижнем регистре. В базе хранится только такой вид.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового пользователя с хэшированием пароля.
// Пустая роль заменяется дефолтной "user". Возвращает созданного
// пользователя и подписанный токен.
//
// Предварительная проверка занятости email — только быстрый отказ;
// гонку двух одновременных регистраций разрешает уникальный индекс,
// и его нарушение приходит тем же storage.ErrUserExists.
func (s *Service) Register(ctx context.Context, name, email, rawPassword, role string) (*models.User, string, error) {
	const op = "services.auth.Register"

	email = NormalizeEmail(email)
	if role == "" {
		role = models.RoleUser
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:          uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	saved, err := s.users.SaveUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(saved.UID, saved.Email, saved.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return saved, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Отсутствующий email и неверный пароль неразличимы: оба дают
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrPasswordMismatch) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Authenticate проверяет JWT и возвращает личность пользователя из claims.
func (s *Service) Authenticate(_ context.Context, token string) (*models.User, error) {
	const op = "services.auth.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.User{
		UID:   claims.UID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
