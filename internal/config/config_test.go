package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/minbatch/batch"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(defaultMinWeight), cfg.Batch.MinWeight)
	assert.Equal(t, InputStdin, cfg.Input.Kind)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
batch:
  min_weight: 1000
  flush_on_stall: true
weigher: bytes
input:
  kind: redis
  redis:
    addr: redis:6379
    key: events
    block_timeout: 250
    stop_on_idle: true
logger:
  log_level: debug
  file_log_name: /var/log/minbatch.log
metrics:
  addr: ":9090"
`))
	require.NoError(t, err)

	assert.Equal(t, batch.Config{MinWeight: 1000, FlushOnStall: true}, cfg.BatchConfig())
	assert.Equal(t, InputRedis, cfg.Input.Kind)
	assert.Equal(t, "events", cfg.Input.Redis.Key)
	assert.Equal(t, 250*time.Millisecond, cfg.Input.Redis.BlockTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.Input.Redis.DialTimeoutDuration(), "unset fields keep defaults")
	assert.Equal(t, defaultMaxBackups, cfg.Logger.MaxBackups)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	w, err := cfg.NewWeigher()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), w.Weight("abc"))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero min weight", "batch: {min_weight: 0}", "MinWeight"},
		{"negative capacity", "batch: {capacity_hint: -1}", "CapacityHint"},
		{"unknown weigher", "weigher: words", "Weigher"},
		{"unknown input", "input: {kind: kafka}", "Kind"},
		{"redis without key", "input: {kind: redis}", "input.redis.key is required"},
		{"bad redis addr", "input: {kind: redis, redis: {addr: nohost, key: k}}", "Addr"},
		{"bad log level", "logger: {log_level: trace}", "LogLevel"},
		{"bad metrics addr", "metrics: {addr: 'not an addr'}", "Addr"},
		{"malformed yaml", "batch: [", "decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minbatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch: {min_weight: 7}\nweigher: runes\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Batch.MinWeight)

	w, err := cfg.NewWeigher()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), w.Weight("éé"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
