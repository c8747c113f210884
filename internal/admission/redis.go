// Скользящее окно на redis: события пишутся в sorted set по ключу
// правила и клиента, счёт ведётся по хвостовому интервалу.
package admission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/auth-gateway/internal/config"
)

// RedisWindow реализует Window поверх redis sorted set.
// Счётчики переживают перезапуск процесса и разделяются между репликами.
type RedisWindow struct {
	Db *redis.Client
}

// NewRedisWindow подключается к redis и проверяет соединение.
func NewRedisWindow(ctx context.Context, cfg config.RedisConnection) (*RedisWindow, error) {
	const op = "admission.NewRedisWindow"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisWindow{Db: db}, nil
}

// Take регистрирует событие и возвращает true, если с учётом нового
// события счёт в хвостовом окне не превышает rule.Max.
//
// Устаревшие события отбрасываются до записи, поэтому sorted set не
// растёт за пределы одного окна; TTL ключа страхует от утечки ключей
// по исчезнувшим клиентам.
func (w *RedisWindow) Take(ctx context.Context, key string, rule Rule) (bool, error) {
	const op = "admission.RedisWindow.Take"

	now := time.Now()
	cutoff := strconv.FormatInt(now.Add(-rule.Interval).UnixNano(), 10)

	pipe := w.Db.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, rule.Interval)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return card.Val() <= int64(rule.Max), nil
}
