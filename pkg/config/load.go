package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load, e.g.
// ROSETTE_USER_KEY or ROSETTE_TIMEOUTS_CONNECT.
const EnvPrefix = "ROSETTE"

// Load reads the configuration from the file at path (YAML, JSON or TOML,
// by extension) and from ROSETTE_* environment variables, then validates it.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	return LoadFS(afero.NewOsFs(), path)
}

// LoadFS is Load reading the file from fs.
func LoadFS(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_url", DefaultServiceURL)
	v.SetDefault("user_key", "")
	v.SetDefault("retries", DefaultRetries)
	v.SetDefault("disable_connection_reuse", false)
	v.SetDefault("refresh_duration", DefaultRefreshDuration)
	v.SetDefault("pool_size", 1)
	v.SetDefault("disable_http2", false)
	v.SetDefault("debug", false)

	t := Timeouts{}.WithDefaults()
	v.SetDefault("timeouts.connect", t.Connect)
	v.SetDefault("timeouts.response_header", t.ResponseHeader)
	v.SetDefault("timeouts.request", t.Request)
	v.SetDefault("timeouts.idle_conn", t.IdleConn)
	v.SetDefault("timeouts.max_backoff", t.MaxBackoff)

	b := CircuitBreaker{}.WithDefaults()
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.max_requests", b.MaxRequests)
	v.SetDefault("circuit_breaker.interval", b.Interval)
	v.SetDefault("circuit_breaker.timeout", b.Timeout)
	v.SetDefault("circuit_breaker.min_requests", b.MinRequests)
	v.SetDefault("circuit_breaker.failure_ratio", b.FailureRatio)
}
