// Запасное окно в памяти процесса для окружений без redis.
package admission

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// MemoryWindow реализует Window на лимитерах x/time/rate: на каждый ключ
// заводится token bucket с ёмкостью rule.Max и скоростью пополнения
// rule.Max за rule.Interval. Это приближение скользящего окна; для
// точного подсчёта и разделяемых счётчиков используется RedisWindow.
type MemoryWindow struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewMemoryWindow создает пустое окно в памяти.
func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{
		limiters: make(map[string]*rate.Limiter),
	}
}

// Take регистрирует событие по ключу и сообщает, допущено ли оно.
func (w *MemoryWindow) Take(_ context.Context, key string, rule Rule) (bool, error) {
	w.mu.Lock()
	limiter, ok := w.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(rule.Max)/rule.Interval.Seconds()), rule.Max)
		w.limiters[key] = limiter
	}
	w.mu.Unlock()

	return limiter.Allow(), nil
}
