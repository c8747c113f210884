// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает сохранённый bcrypt-хеш с введённым паролем.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch возвращается при несовпадении пароля и хэша.
// Несовпадение — штатный исход проверки, а не инфраструктурный сбой.
var ErrPasswordMismatch = errors.New("password mismatch")

// hashCost — стоимость bcrypt. Контракт API допускает пароли до 128 символов,
// а bcrypt принимает не более 72 байт, поэтому пароль предварительно
// сворачивается в sha256-дайджест фиксированной длины.
const hashCost = 10

func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Используется для безопасного хранения паролей в базе данных.
// Текст пароля никогда не попадает в сообщение ошибки.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword(digest(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil при совпадении, ErrPasswordMismatch при несовпадении
// и обёрнутую ошибку при внутреннем сбое bcrypt.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), digest(externalPassword))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return fmt.Errorf("%s: %w", op, err)
}
