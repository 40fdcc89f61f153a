package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		MaxActive:   20,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(5*time.Second),
				redis.DialWriteTimeout(writeWait))
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// RedisRelay shares updates through a Redis pub/sub channel.
type RedisRelay struct {
	Pool    *redis.Pool
	Channel string
	Log     *zap.Logger
}

func (r *RedisRelay) Publish(ctx context.Context, payload []byte) error {
	conn, err := r.Pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("redis conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("PUBLISH", r.Channel, payload); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Listen subscribes on a dedicated connection outside the pool and blocks
// until ctx is done or the connection fails.
func (r *RedisRelay) Listen(ctx context.Context, deliver func([]byte)) error {
	conn, err := r.Pool.Dial()
	if err != nil {
		return fmt.Errorf("redis subscribe dial: %w", err)
	}
	psc := redis.PubSubConn{Conn: conn}
	defer psc.Close()

	if err := psc.Subscribe(r.Channel); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		for {
			switch v := psc.Receive().(type) {
			case redis.Message:
				deliver(v.Data)
			case redis.Subscription:
				if v.Kind == "subscribe" && r.Log != nil {
					r.Log.Info("relay subscribed", zap.String("channel", v.Channel))
				}
				if v.Count == 0 {
					errc <- nil
					return
				}
			case error:
				errc <- v
				return
			}
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		psc.Unsubscribe()
		select {
		case <-errc:
		case <-time.After(writeWait):
		}
		return ctx.Err()
	}
}
