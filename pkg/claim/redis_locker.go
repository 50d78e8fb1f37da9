package claim

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker serialises claims across API instances with SET NX PX. The TTL
// bounds how long a crashed holder can block a donation.
type RedisLocker struct {
	client    *redis.Client
	prefix    string
	ttl       time.Duration
	retryWait time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:    client,
		prefix:    "foodshare:lock:",
		ttl:       ttl,
		retryWait: 25 * time.Millisecond,
	}
}

// NewRedisClient connects and pings, like the cache clients elsewhere.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}
	return client, nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "acquire lock %s", key)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryWait):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release even if the request context is already cancelled
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err()
		})
	}, nil
}
