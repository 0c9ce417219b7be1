package source

import (
	"context"
	"time"

	g "github.com/anacrolix/generics"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/MasterOfBinary/minbatch/batch"
)

// DefaultRedisTimeout is the BLPOP timeout used when Timeout is zero.
const DefaultRedisTimeout = 5 * time.Second

// RedisClient is the subset of redis.Cmdable used by Redis. Both
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
}

// DecodeFunc converts a raw list element into an item.
type DecodeFunc[T any] func(raw string) (T, error)

// Redis is an Upstream that pops items off the head of a Redis list. Producers
// push with RPUSH, so items are consumed in push order.
//
// By default Redis waits for new elements indefinitely, one BLPOP of Timeout
// at a time. With StopOnIdle set, a BLPOP that times out is treated as the
// end of the stream.
type Redis[T any] struct {
	// Client is the connection used for BLPOP and LPOP.
	Client RedisClient

	// Key is the name of the list.
	Key string

	// Timeout bounds each BLPOP call (default: DefaultRedisTimeout).
	Timeout time.Duration

	// StopOnIdle reports exhaustion when the list stays empty for Timeout.
	StopOnIdle bool

	// Decode converts raw elements. It may be nil when T is string.
	Decode DecodeFunc[T]
}

var (
	_ batch.Upstream[string] = (*Redis[string])(nil)
	_ batch.Poller[string]   = (*Redis[string])(nil)
)

// Next implements the batch.Upstream interface.
func (s *Redis[T]) Next(ctx context.Context) (g.Option[T], error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultRedisTimeout
	}

	for {
		res, err := s.Client.BLPop(ctx, timeout, s.Key).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return g.None[T](), ctxErr
			}
			if errors.Is(err, redis.Nil) {
				if s.StopOnIdle {
					return g.None[T](), nil
				}
				continue
			}
			return g.None[T](), errors.Wrapf(err, "blpop %s", s.Key)
		}
		if len(res) != 2 {
			return g.None[T](), errors.Errorf("blpop %s: unexpected reply of length %d", s.Key, len(res))
		}
		return s.decode(res[1])
	}
}

// TryNext implements the batch.Poller interface using LPOP. An empty list is
// reported as not ready, never as exhaustion.
func (s *Redis[T]) TryNext() (g.Option[T], bool, error) {
	raw, err := s.Client.LPop(context.Background(), s.Key).Result()
	if errors.Is(err, redis.Nil) {
		return g.None[T](), false, nil
	}
	if err != nil {
		return g.None[T](), true, errors.Wrapf(err, "lpop %s", s.Key)
	}
	item, err := s.decode(raw)
	return item, true, err
}

func (s *Redis[T]) decode(raw string) (g.Option[T], error) {
	if s.Decode == nil {
		item, ok := any(raw).(T)
		if !ok {
			return g.None[T](), errors.Errorf("no decoder for list %s", s.Key)
		}
		return g.Some(item), nil
	}

	item, err := s.Decode(raw)
	if err != nil {
		return g.None[T](), errors.Wrapf(err, "decode element of %s", s.Key)
	}
	return g.Some(item), nil
}
