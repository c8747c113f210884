// Package admission реализует допусковый контроль входящих запросов:
// классификацию ботов, экранирование атакующих сигнатур и ограничение
// частоты запросов по ролям в скользящем окне.
//
// Решение принимает Decider. Локальная реализация LocalDecider заменяет
// внешний сервис принятия решений: политика (роль → лимит, формат ответа)
// остаётся в middleware, механизм подсчёта — за этим пакетом.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/auth-gateway/internal/config"
)

// Kind — категория решения по запросу.
type Kind int

// Категории решений. Allow пропускает запрос, остальные отклоняют его
// с различными HTTP-статусами и сообщениями.
const (
	Allow Kind = iota
	DenyBot
	DenyShield
	DenyRateLimit
)

// String возвращает метку категории для логов и метрик.
func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case DenyBot:
		return "bot"
	case DenyShield:
		return "shield"
	case DenyRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// Decision — результат классификации запроса.
type Decision struct {
	Kind    Kind   // Категория решения
	Message string // Сообщение для клиента при отказе
}

// Rule — правило ограничения частоты для одной роли.
type Rule struct {
	Name     string        // Ключ счётчика, формат "{role}-rate-limit"
	Role     string        // Роль вызывающего
	Interval time.Duration // Длина скользящего окна
	Max      int           // Максимум запросов в окне
	Message  string        // Сообщение при превышении лимита
}

// Probe — атрибуты запроса, по которым принимается решение.
type Probe struct {
	IP        string
	UserAgent string
	Method    string
	Path      string
	Query     string
}

// Decider принимает решение о допуске запроса по правилу rule.
// Ошибка означает внутренний сбой механизма, а не отказ в допуске;
// вызывающая сторона обязана трактовать её fail-closed.
type Decider interface {
	Decide(ctx context.Context, probe Probe, rule Rule) (Decision, error)
}

// RuleForRole строит правило ограничения частоты для роли по настройкам.
// Неизвестная роль получает гостевой лимит.
func RuleForRole(cfg config.Admission, role string) Rule {
	var max int
	switch role {
	case "admin":
		max = cfg.AdminLimit
	case "user":
		max = cfg.UserLimit
	default:
		role = "guest"
		max = cfg.GuestLimit
	}
	return Rule{
		Name:     role + "-rate-limit",
		Role:     role,
		Interval: cfg.Interval,
		Max:      max,
		Message:  fmt.Sprintf("%s rate limit exceeded: %d requests per %s", role, max, cfg.Interval),
	}
}
