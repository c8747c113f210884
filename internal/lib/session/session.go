// Package session управляет сессионной cookie с JWT токеном.
//
// Политика атрибутов фиксированная: HttpOnly, SameSite=Lax, Secure в
// боевом окружении. Атрибуты при выставлении и сбросе cookie обязаны
// совпадать, иначе часть клиентов не удалит устаревшую cookie.
package session

import (
	"net/http"
	"time"
)

// Manager выставляет, сбрасывает и читает сессионную cookie.
type Manager struct {
	name   string        // Имя cookie
	ttl    time.Duration // Срок жизни cookie
	secure bool          // Атрибут Secure, включается в prod
}

// New создает Manager с фиксированной политикой атрибутов.
func New(name string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		name:   name,
		ttl:    ttl,
		secure: secure,
	}
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Issue выставляет cookie с токеном на срок жизни сессии.
func (m *Manager) Issue(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
}

// Revoke сбрасывает cookie. Операция идемпотентна: сброс отсутствующей
// cookie также корректен.
func (m *Manager) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

// Read возвращает значение сессионной cookie из запроса.
func (m *Manager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
