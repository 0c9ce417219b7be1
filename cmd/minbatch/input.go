package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/internal/config"
	"github.com/MasterOfBinary/minbatch/source"
)

// redisUpstream closes the client together with the upstream.
type redisUpstream struct {
	*source.Redis[string]
	client *redis.Client
}

func (r *redisUpstream) Close() error {
	return r.client.Close()
}

func openInput(cfg config.Input, stdin io.Reader) (batch.Upstream[string], error) {
	switch cfg.Kind {
	case config.InputStdin:
		return source.FromReader(stdin), nil
	case config.InputRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.Database,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeoutDuration(),
		})
		up, err := source.NewRedis(source.RedisConfig[string]{
			Client:     client,
			Key:        cfg.Redis.Key,
			Timeout:    cfg.Redis.BlockTimeoutDuration(),
			StopOnIdle: cfg.Redis.StopOnIdle,
		})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return &redisUpstream{Redis: up, client: client}, nil
	default:
		return nil, errors.Errorf("unknown input kind %q", cfg.Kind)
	}
}
