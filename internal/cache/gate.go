package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const gatePrefix = "checkout:inflight:"

// удаляем ключ, только если он всё ещё наш: блокировка могла истечь и достаться другой отправке
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmissionGate не даёт продавцу отправить две оплаты одновременно из разных
// вкладок или через разные реплики. Блокировка живёт не дольше ttl.
type SubmissionGate struct {
	cache *Cache
	ttl   time.Duration
}

// NewSubmissionGate создаёт блокировку с временем жизни ttl (обычно таймаут платёжного запроса).
func NewSubmissionGate(c *Cache, ttl time.Duration) *SubmissionGate {
	return &SubmissionGate{
		cache: c,
		ttl:   ttl,
	}
}

// Acquire пытается захватить блокировку для key и возвращает токен владельца.
// false — отправка уже идёт.
func (g *SubmissionGate) Acquire(ctx context.Context, key string) (string, bool, error) {
	const op = "cache.SubmissionGate.Acquire"
	token := uuid.NewString()
	ok, err := g.cache.Db.SetNX(ctx, gatePrefix+key, token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release снимает блокировку key, только если она всё ещё принадлежит token.
func (g *SubmissionGate) Release(ctx context.Context, key, token string) error {
	const op = "cache.SubmissionGate.Release"
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, g.cache.Db, []string{gatePrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
