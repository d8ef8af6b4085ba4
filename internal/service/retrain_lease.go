package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"place-trainer/internal/domain"
)

// RetrainLease reserva el lote pendiente para una sola invocación.
// Sin lease, dos disparos concurrentes pueden procesar el mismo lote.
type RetrainLease interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

const redisLeaseReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisLeaser interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisRetrainLease struct {
	client redisLeaser
	key    string
	ttl    time.Duration
}

func NewRedisRetrainLease(client *redis.Client, ttl time.Duration) RetrainLease {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisRetrainLease{
		client: client,
		key:    "retrain:lease:" + domain.ModelID,
		ttl:    ttl,
	}
}

func (l *redisRetrainLease) Acquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		_ = l.client.Eval(ctx, redisLeaseReleaseScript, []string{l.key}, token).Err()
	}
	return release, true, nil
}
