package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigDefaults tests loading with no file present
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "tarn-1", cfg.ChainID)
	assert.Equal(t, "http://localhost:26657", cfg.NodeRPC)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 2*time.Second, cfg.PoolStreamInterval)
	assert.Nil(t, cfg.Forward)
	assert.False(t, cfg.Telemetry.Enabled)
}

// TestLoadConfigFile tests reading a TOML file with a forwarder section
func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.toml")

	content := `
[server]
host = "127.0.0.1"
port = "9191"
read-timeout = "30s"
cors-origins = ["https://app.tarn.example"]
rate-limit-rps = 10
rate-limit-burst = 20

[chain]
id = "tarn-local"
node-rpc = "http://10.0.0.5:26657"

[admin]
user = "ops"
password-hash = "$2a$10$abcdefghijklmnopqrstuv"
jwt-secret = "configured-secret"
token-ttl = "30m"

[stream]
pool-interval = "500ms"

[telemetry]
enabled = true
otlp-endpoint = "http://collector:4318"
sample-rate = 0.5

[forward]
key-name = "gateway-admin"
home = "/var/lib/tarn"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "9191", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, []string{"https://app.tarn.example"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, "tarn-local", cfg.ChainID)
	assert.Equal(t, "ops", cfg.AdminUser)
	assert.Equal(t, []byte("configured-secret"), cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.PoolStreamInterval)

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://collector:4318", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, "tarn-local", cfg.Telemetry.ChainID)

	require.NotNil(t, cfg.Forward)
	assert.Equal(t, "gateway-admin", cfg.Forward.KeyName)
	assert.Equal(t, "tarnd", cfg.Forward.Binary)
	assert.Equal(t, "test", cfg.Forward.KeyringBackend)
	assert.Equal(t, "/var/lib/tarn", cfg.Forward.Home)
	assert.Equal(t, "tarn-local", cfg.Forward.ChainID)
	assert.Equal(t, "http://10.0.0.5:26657", cfg.Forward.Node)
	assert.Equal(t, "2000utarn", cfg.Forward.Fees)
}

// TestLoadConfigEnvOverride tests environment precedence over defaults
func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TARN_GATEWAY_SERVER_PORT", "7070")
	t.Setenv("TARN_GATEWAY_CHAIN_NODE_RPC", "http://env-node:26657")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "http://env-node:26657", cfg.NodeRPC)
}

// TestConfigValidate tests rejection of inconsistent settings
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing node rpc", func(c *Config) { c.NodeRPC = "" }},
		{"zero rate limit", func(c *Config) { c.RateLimitRPS = 0 }},
		{"burst below rate", func(c *Config) { c.RateLimitBurst = c.RateLimitRPS - 1 }},
		{"hash without user", func(c *Config) {
			c.AdminUser = ""
			c.AdminPasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
		}},
		{"zero stream interval", func(c *Config) { c.PoolStreamInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
