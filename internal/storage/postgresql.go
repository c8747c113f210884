// Package storage реализует хранилище пользователей на основе PostgreSQL.
// Предоставляет методы сохранения и поиска учётных записей; уникальность
// email гарантируется ограничением в схеме, нарушение транслируется
// в доменную ошибку ErrUserExists.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Доменные ошибки хранилища. Обработчики различают их через errors.Is,
// всё остальное считается инфраструктурным сбоем.
var (
	// ErrUserExists — пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound — пользователь с таким email не найден.
	ErrUserNotFound = errors.New("user not found")
)

// Код unique_violation в PostgreSQL.
const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
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

// SaveUser вставляет новую запись пользователя и возвращает её вместе
// с временными метками, проставленными базой.
//
// Пара "проверить и вставить" на уровне сервиса не атомарна, поэтому
// настоящим арбитром уникальности email служит уникальный индекс:
// его нарушение возвращается как ErrUserExists.
func (s *Storage) SaveUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.SaveUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Name, user.Email, user.PasswordHash, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// FindUserByEmail возвращает пользователя по нормализованному email
// или ErrUserNotFound, если записи нет.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, created_at, updated_at
			  FROM users WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	var result models.User
	err := row.Scan(&result.UID, &result.Name, &result.Email, &result.PasswordHash,
		&result.Role, &result.CreatedAt, &result.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
