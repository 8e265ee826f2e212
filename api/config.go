package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/tarn-chain/tarn/telemetry"
)

// Config holds gateway configuration.
type Config struct {
	Host    string
	Port    string
	ChainID string
	NodeRPC string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	CORSOrigins    []string
	RateLimitRPS   int
	RateLimitBurst int

	// Admin endpoint auth. AdminPasswordHash is a bcrypt hash; an empty
	// value disables the admin endpoints.
	JWTSecret         []byte
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string

	// PoolStreamInterval is how often the websocket stream re-reads pools.
	PoolStreamInterval time.Duration

	Telemetry telemetry.Config

	// Forward configures admin tx submission through the daemon binary.
	// Nil leaves the pause/unpause endpoints returning ErrForwardDisabled.
	Forward *ForwardConfig
}

// DefaultConfig returns the gateway defaults for a local node.
func DefaultConfig() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               "8090",
		ChainID:            "tarn-1",
		NodeRPC:            "http://localhost:26657",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		CORSOrigins:        []string{"http://localhost:3000"},
		RateLimitRPS:       50,
		RateLimitBurst:     100,
		TokenTTL:           time.Hour,
		PoolStreamInterval: 2 * time.Second,
		Telemetry: telemetry.Config{
			Enabled:           false,
			OTLPEndpoint:      "http://localhost:4318",
			SampleRate:        0.1,
			Environment:       "development",
			PrometheusEnabled: true,
		},
	}
}

// LoadConfig reads gateway configuration from an optional TOML file, with
// TARN_GATEWAY_* environment variables taking precedence over file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("TARN_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("server.host", def.Host)
	v.SetDefault("server.port", def.Port)
	v.SetDefault("server.read-timeout", def.ReadTimeout.String())
	v.SetDefault("server.write-timeout", def.WriteTimeout.String())
	v.SetDefault("server.shutdown-timeout", def.ShutdownTimeout.String())
	v.SetDefault("server.cors-origins", def.CORSOrigins)
	v.SetDefault("server.rate-limit-rps", def.RateLimitRPS)
	v.SetDefault("server.rate-limit-burst", def.RateLimitBurst)
	v.SetDefault("chain.id", def.ChainID)
	v.SetDefault("chain.node-rpc", def.NodeRPC)
	v.SetDefault("admin.token-ttl", def.TokenTTL.String())
	v.SetDefault("stream.pool-interval", def.PoolStreamInterval.String())
	v.SetDefault("telemetry.enabled", def.Telemetry.Enabled)
	v.SetDefault("telemetry.otlp-endpoint", def.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.sample-rate", def.Telemetry.SampleRate)
	v.SetDefault("telemetry.environment", def.Telemetry.Environment)
	v.SetDefault("telemetry.prometheus", def.Telemetry.PrometheusEnabled)
	v.SetDefault("forward.keyring-backend", "test")
	v.SetDefault("forward.fees", "2000utarn")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read gateway config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Host:               v.GetString("server.host"),
		Port:               v.GetString("server.port"),
		ChainID:            v.GetString("chain.id"),
		NodeRPC:            v.GetString("chain.node-rpc"),
		ReadTimeout:        cast.ToDuration(v.Get("server.read-timeout")),
		WriteTimeout:       cast.ToDuration(v.Get("server.write-timeout")),
		ShutdownTimeout:    cast.ToDuration(v.Get("server.shutdown-timeout")),
		CORSOrigins:        cast.ToStringSlice(v.Get("server.cors-origins")),
		RateLimitRPS:       v.GetInt("server.rate-limit-rps"),
		RateLimitBurst:     v.GetInt("server.rate-limit-burst"),
		JWTSecret:          []byte(v.GetString("admin.jwt-secret")),
		TokenTTL:           cast.ToDuration(v.Get("admin.token-ttl")),
		AdminUser:          v.GetString("admin.user"),
		AdminPasswordHash:  v.GetString("admin.password-hash"),
		PoolStreamInterval: cast.ToDuration(v.Get("stream.pool-interval")),
		Telemetry: telemetry.Config{
			Enabled:           v.GetBool("telemetry.enabled"),
			OTLPEndpoint:      v.GetString("telemetry.otlp-endpoint"),
			SampleRate:        v.GetFloat64("telemetry.sample-rate"),
			Environment:       v.GetString("telemetry.environment"),
			ChainID:           v.GetString("chain.id"),
			PrometheusEnabled: v.GetBool("telemetry.prometheus"),
		},
	}

	// The forwarder is opt-in: it activates only when a signing key is named.
	if keyName := v.GetString("forward.key-name"); keyName != "" {
		cfg.Forward = &ForwardConfig{
			Binary:         v.GetString("forward.binary"),
			KeyName:        keyName,
			KeyringBackend: v.GetString("forward.keyring-backend"),
			Home:           v.GetString("forward.home"),
			ChainID:        cfg.ChainID,
			Node:           cfg.NodeRPC,
			Fees:           v.GetString("forward.fees"),
		}
		if cfg.Forward.Binary == "" {
			cfg.Forward.Binary = "tarnd"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.NodeRPC == "" {
		return fmt.Errorf("node RPC endpoint is required")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		return fmt.Errorf("rate limit burst must be at least the per-second rate")
	}
	if c.AdminPasswordHash != "" && c.AdminUser == "" {
		return fmt.Errorf("admin user is required when a password hash is set")
	}
	if c.PoolStreamInterval <= 0 {
		return fmt.Errorf("pool stream interval must be positive")
	}
	return nil
}
