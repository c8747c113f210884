// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки JWT токенов,
// несущих uid, email и роль пользователя. MakerImpl — конкретная реализация
// с использованием секретного ключа и срока жизни токена.
package jwt

import (
	"errors"
	"time"
)

// ErrTokenExpired возвращается для токена с истёкшим сроком действия.
// Все прочие дефекты токена (подпись, формат) сводятся к ErrTokenInvalid.
var (
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт подписанный токен с uid, email и ролью.
	GenerateToken(uid, email, role string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
