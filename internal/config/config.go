// Package config loads the minbatch command configuration from YAML.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/MasterOfBinary/minbatch/batch"
)

const (
	InputStdin = "stdin"
	InputRedis = "redis"

	WeigherCount = "count"
	WeigherBytes = "bytes"
	WeigherRunes = "runes"
)

const (
	defaultMinWeight    = 100
	defaultRedisAddr    = "localhost:6379"
	defaultPoolSize     = 10
	defaultDialTimeout  = 5    // seconds
	defaultBlockTimeout = 5000 // millis
	defaultMaxSize      = 100  // megabytes
	defaultMaxBackups   = 3
	defaultMaxAge       = 28 // days
	defaultMetricsNS    = "minbatch"
	defaultMetricsPath  = "/metrics"
	defaultLogLevel     = "info"
	defaultWeigher      = WeigherCount
	defaultInputKind    = InputStdin
)

// Config is the configuration for the minbatch command.
type Config struct {
	Batch   Batch   `yaml:"batch"`
	Weigher string  `yaml:"weigher" validate:"oneof=count bytes runes"`
	Input   Input   `yaml:"input"`
	Logger  Logger  `yaml:"logger"`
	Metrics Metrics `yaml:"metrics"`
}

// Batch is the configuration for the accumulator.
type Batch struct {
	MinWeight    uint64 `yaml:"min_weight" validate:"gt=0"`
	FlushOnStall bool   `yaml:"flush_on_stall"`
	CapacityHint int    `yaml:"capacity_hint" validate:"gte=0"`
}

// Input selects where items come from.
type Input struct {
	Kind  string `yaml:"kind" validate:"oneof=stdin redis"`
	Redis Redis  `yaml:"redis"`
}

// Redis is the configuration for the Redis list input.
type Redis struct {
	Addr         string `yaml:"addr" validate:"hostname_port"`
	Password     string `yaml:"password"`
	Database     int    `yaml:"database" validate:"gte=0,lte=15"`
	Key          string `yaml:"key"`
	PoolSize     int    `yaml:"pool_size" validate:"gte=0"`
	DialTimeout  int    `yaml:"dial_timeout" validate:"gte=0"`  // seconds
	BlockTimeout int    `yaml:"block_timeout" validate:"gte=0"` // millis
	StopOnIdle   bool   `yaml:"stop_on_idle"`
}

// Logger is the configuration for the logger. Logs go to stderr unless
// FileLogName is set, in which case the file is rotated.
type Logger struct {
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	FileLogName string `yaml:"file_log_name"`
	MaxBackups  int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `yaml:"max_age" validate:"gte=0"`  // days
	MaxSize     int    `yaml:"max_size" validate:"gte=0"` // megabytes
	Compress    bool   `yaml:"compress"`
}

// Metrics is the configuration for the Prometheus endpoint. An empty Addr
// disables it.
type Metrics struct {
	Addr      string `yaml:"addr" validate:"omitempty,hostname_port"`
	Path      string `yaml:"path" validate:"startswith=/"`
	Namespace string `yaml:"namespace" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Batch:   Batch{MinWeight: defaultMinWeight},
		Weigher: defaultWeigher,
		Input: Input{
			Kind: defaultInputKind,
			Redis: Redis{
				Addr:         defaultRedisAddr,
				PoolSize:     defaultPoolSize,
				DialTimeout:  defaultDialTimeout,
				BlockTimeout: defaultBlockTimeout,
			},
		},
		Logger: Logger{
			LogLevel:   defaultLogLevel,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAge,
			MaxSize:    defaultMaxSize,
		},
		Metrics: Metrics{
			Path:      defaultMetricsPath,
			Namespace: defaultMetricsNS,
		},
	}
}

// Load reads and validates the YAML file at path. Fields missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes and validates YAML data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the field constraints and the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Input.Kind == InputRedis && c.Input.Redis.Key == "" {
		return errors.New("invalid config: input.redis.key is required for redis input")
	}
	return nil
}

// BatchConfig converts the batch section into a batch.Config.
func (c *Config) BatchConfig() batch.Config {
	return batch.Config{
		MinWeight:    c.Batch.MinWeight,
		FlushOnStall: c.Batch.FlushOnStall,
		CapacityHint: c.Batch.CapacityHint,
	}
}

// NewWeigher returns the string weigher named by Weigher.
func (c *Config) NewWeigher() (batch.Weigher[string], error) {
	switch c.Weigher {
	case WeigherCount:
		return batch.Count[string](), nil
	case WeigherBytes:
		return batch.Bytes[string](), nil
	case WeigherRunes:
		return batch.Runes[string](), nil
	default:
		return nil, errors.Errorf("unknown weigher %q", c.Weigher)
	}
}

// BlockTimeoutDuration returns the BLPOP timeout as a duration.
func (r Redis) BlockTimeoutDuration() time.Duration {
	return time.Duration(r.BlockTimeout) * time.Millisecond
}

// DialTimeoutDuration returns the dial timeout as a duration.
func (r Redis) DialTimeoutDuration() time.Duration {
	return time.Duration(r.DialTimeout) * time.Second
}
