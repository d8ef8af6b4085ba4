package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

type redisPublisherClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publica la señal en un canal pub/sub de Redis.
// El breaker corta las publicaciones mientras Redis está caído.
type RedisPublisher struct {
	client  redisPublisherClient
	channel string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[int64]
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if client == nil {
		return nil
	}
	return newRedisPublisher(client, channel)
}

func newRedisPublisher(client redisPublisherClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = "model:reload"
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		timeout: 500 * time.Millisecond,
		breaker: gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
			Name:        "redis-reload-publisher",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Publish devuelve la cantidad de suscriptores que recibieron el mensaje.
func (p *RedisPublisher) Publish(ctx context.Context, payload []byte) error {
	_, err := p.breaker.Execute(func() (int64, error) {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.client.Publish(ctx, p.channel, payload).Result()
	})
	return err
}
