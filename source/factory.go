package source

import (
	"time"

	"github.com/pkg/errors"
)

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig[T any] struct {
	// Input is the channel from which this source will read data.
	// This field is required.
	Input <-chan T
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[T]) Validate() error {
	if c.Input == nil {
		return errors.New("input channel cannot be nil")
	}
	return nil
}

// NewChannel creates a new Channel source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	input := make(chan Block, 10)
//	src, err := source.NewChannel(source.ChannelConfig[Block]{Input: input})
//	if err != nil {
//		// handle error
//	}
func NewChannel[T any](config ChannelConfig[T]) (*Channel[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid channel config")
	}
	return &Channel[T]{Input: config.Input}, nil
}

// RedisConfig provides configuration options for creating a Redis source.
type RedisConfig[T any] struct {
	// Client is required.
	Client RedisClient

	// Key is the list name. Required.
	Key string

	// Timeout bounds each BLPOP call. Zero means DefaultRedisTimeout.
	Timeout time.Duration

	// StopOnIdle ends the stream when the list stays empty for Timeout.
	StopOnIdle bool

	// Decode converts raw elements. Required unless T is string.
	Decode DecodeFunc[T]
}

// Validate checks if the RedisConfig is valid.
func (c RedisConfig[T]) Validate() error {
	if c.Client == nil {
		return errors.New("redis client cannot be nil")
	}
	if c.Key == "" {
		return errors.New("list key cannot be empty")
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if c.Decode == nil {
		var zero T
		if _, ok := any(zero).(string); !ok {
			return errors.New("decode function is required for non-string items")
		}
	}
	return nil
}

// NewRedis creates a new Redis source with the given configuration.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	src, err := source.NewRedis(source.RedisConfig[string]{
//		Client:     client,
//		Key:        "events",
//		StopOnIdle: true,
//	})
func NewRedis[T any](config RedisConfig[T]) (*Redis[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis config")
	}
	return &Redis[T]{
		Client:     config.Client,
		Key:        config.Key,
		Timeout:    config.Timeout,
		StopOnIdle: config.StopOnIdle,
		Decode:     config.Decode,
	}, nil
}

// NewNil creates a new Nil source that is exhausted after d.
func NewNil[T any](d time.Duration) *Nil[T] {
	return &Nil[T]{Duration: d}
}
