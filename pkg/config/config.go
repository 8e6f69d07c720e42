// Package config defines the runtime configuration of the Rosette client:
// service URL, API key, retry and connection-reuse policy, timeouts, and the
// optional circuit breaker. It also provides validation and defaulting helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	// DefaultServiceURL is the public Rosette API endpoint.
	DefaultServiceURL = "https://api.rosette.com/rest/v1/"
	// DefaultRetries is the number of attempts made for a retryable request.
	DefaultRetries = 3
	// DefaultRefreshDuration is how long a pooled connection is reused.
	DefaultRefreshDuration = 86400 * time.Second
	// MinRefreshDuration is the smallest accepted refresh duration.
	MinRefreshDuration = 60 * time.Second
)

// Config holds all client settings. Use Validate to fill implicit defaults
// and to check the service URL.
type Config struct {
	// ServiceURL is the API root. A trailing "/" is added when missing.
	// Default: https://api.rosette.com/rest/v1/
	ServiceURL string `json:"service_url" yaml:"service_url" mapstructure:"service_url"`
	// UserKey is sent as X-RosetteAPI-Key. Required by the public service,
	// optional for on-premise deployments.
	UserKey string `json:"user_key" yaml:"user_key" mapstructure:"user_key"`
	// Retries is the number of attempts for a request that fails with a
	// 5xx status or a network error. Zero means DefaultRetries; values
	// below one are raised to one.
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`
	// DisableConnectionReuse closes connections after every request.
	DisableConnectionReuse bool `json:"disable_connection_reuse" yaml:"disable_connection_reuse" mapstructure:"disable_connection_reuse"`
	// RefreshDuration is how long a reused connection pool lives before it is
	// recreated. Zero means DefaultRefreshDuration; minimum 60s.
	RefreshDuration time.Duration `json:"refresh_duration" yaml:"refresh_duration" mapstructure:"refresh_duration"`
	// PoolSize is the initial connection pool size. The server may raise it
	// through the concurrency response header. Default: 1.
	PoolSize int `json:"pool_size" yaml:"pool_size" mapstructure:"pool_size"`
	// DisableHTTP2 keeps the transport on HTTP/1.1.
	DisableHTTP2 bool `json:"disable_http2" yaml:"disable_http2" mapstructure:"disable_http2"`
	// Debug adds debug=true to every request and enables verbose logging.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
	// Timeouts configures network deadlines. See Timeouts.WithDefaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts" mapstructure:"timeouts"`
	// CircuitBreaker configures the optional breaker around the transport.
	CircuitBreaker CircuitBreaker `json:"circuit_breaker" yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// Timeouts controls network deadlines.
// Zero values will be replaced by defaults in WithDefaults.
type Timeouts struct {
	Connect        time.Duration `json:"connect" yaml:"connect" mapstructure:"connect"`                         // TCP/TLS connect
	ResponseHeader time.Duration `json:"response_header" yaml:"response_header" mapstructure:"response_header"` // wait for response headers
	Request        time.Duration `json:"request" yaml:"request" mapstructure:"request"`                         // whole request incl. body
	IdleConn       time.Duration `json:"idle_conn" yaml:"idle_conn" mapstructure:"idle_conn"`                   // idle pooled connection
	MaxBackoff     time.Duration `json:"max_backoff" yaml:"max_backoff" mapstructure:"max_backoff"`             // cap between reconnect attempts
}

// CircuitBreaker configures the breaker that stops calls to an unhealthy
// server. Disabled by default.
type CircuitBreaker struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32 `json:"max_requests" yaml:"max_requests" mapstructure:"max_requests"`
	// Interval is the cyclic period after which closed-state counts reset.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Timeout is how long the breaker stays open.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// MinRequests is the number of requests observed before tripping.
	MinRequests uint32 `json:"min_requests" yaml:"min_requests" mapstructure:"min_requests"`
	// FailureRatio trips the breaker when reached, in [0, 1].
	FailureRatio float64 `json:"failure_ratio" yaml:"failure_ratio" mapstructure:"failure_ratio"`
}

// Default returns a validated configuration for the public service.
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Validate normalizes the configuration by applying implicit defaults
// (service URL, retries, refresh duration, pool size, timeouts) and checks
// that the service URL is a valid request URL.
func (c *Config) Validate() error {
	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}
	if !strings.HasSuffix(c.ServiceURL, "/") {
		c.ServiceURL += "/"
	}

	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
	if c.Retries < 1 {
		c.Retries = 1
	}

	if c.RefreshDuration == 0 {
		c.RefreshDuration = DefaultRefreshDuration
	}
	if c.RefreshDuration < MinRefreshDuration {
		c.RefreshDuration = MinRefreshDuration
	}

	if c.PoolSize < 1 {
		c.PoolSize = 1
	}

	c.Timeouts = c.Timeouts.WithDefaults()
	c.CircuitBreaker = c.CircuitBreaker.WithDefaults()

	err := validation.ValidateStruct(c,
		validation.Field(&c.ServiceURL, validation.Required, is.RequestURL),
		validation.Field(&c.CircuitBreaker),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Connect:        10s
//	ResponseHeader: 60s
//	Request:        120s
//	IdleConn:       90s
//	MaxBackoff:     300s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Connect == 0 {
		tt.Connect = 10 * time.Second
	}
	if tt.ResponseHeader == 0 {
		tt.ResponseHeader = 60 * time.Second
	}
	if tt.Request == 0 {
		tt.Request = 120 * time.Second
	}
	if tt.IdleConn == 0 {
		tt.IdleConn = 90 * time.Second
	}
	if tt.MaxBackoff == 0 {
		tt.MaxBackoff = 300 * time.Second
	}
	return tt
}

// WithDefaults returns a copy of b with zero values replaced by defaults:
//
//	MaxRequests:  1
//	Interval:     60s
//	Timeout:      30s
//	MinRequests:  5
//	FailureRatio: 0.6
func (b CircuitBreaker) WithDefaults() CircuitBreaker {
	bb := b
	if bb.MaxRequests == 0 {
		bb.MaxRequests = 1
	}
	if bb.Interval == 0 {
		bb.Interval = 60 * time.Second
	}
	if bb.Timeout == 0 {
		bb.Timeout = 30 * time.Second
	}
	if bb.MinRequests == 0 {
		bb.MinRequests = 5
	}
	if bb.FailureRatio == 0 {
		bb.FailureRatio = 0.6
	}
	return bb
}

// Validate checks the breaker thresholds.
func (b CircuitBreaker) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.FailureRatio, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&b.Timeout, validation.Min(time.Duration(0))),
	)
}
