package config

import (
	"testing"
	"time"
)

// TestConfigValidate_AppliesDefaults verifies that Validate applies default values
// for ServiceURL, Retries, RefreshDuration and PoolSize when they are not set.
func TestConfigValidate_AppliesDefaults(t *testing.T) {
	cfg := &Config{UserKey: "bogus_key"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.ServiceURL != "https://api.rosette.com/rest/v1/" {
		t.Fatalf("unexpected ServiceURL: %s", cfg.ServiceURL)
	}
	if cfg.Retries != 3 {
		t.Fatalf("unexpected Retries: %d", cfg.Retries)
	}
	if cfg.RefreshDuration != 86400*time.Second {
		t.Fatalf("unexpected RefreshDuration: %v", cfg.RefreshDuration)
	}
	if cfg.PoolSize != 1 {
		t.Fatalf("unexpected PoolSize: %d", cfg.PoolSize)
	}
	if cfg.DisableConnectionReuse {
		t.Fatal("connection reuse must be enabled by default")
	}
}

// TestConfigValidate_Clamps verifies the lower bounds on retries and refresh
// duration and the trailing slash on the service URL.
func TestConfigValidate_Clamps(t *testing.T) {
	cfg := &Config{
		ServiceURL:      "http://localhost:8181/rest/v1",
		Retries:         -4,
		RefreshDuration: 5 * time.Second,
		PoolSize:        -1,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if cfg.ServiceURL != "http://localhost:8181/rest/v1/" {
		t.Fatalf("trailing slash not added: %s", cfg.ServiceURL)
	}
	if cfg.Retries != 1 {
		t.Fatalf("Retries = %d, want 1", cfg.Retries)
	}
	if cfg.RefreshDuration != time.Minute {
		t.Fatalf("RefreshDuration = %v, want 1m", cfg.RefreshDuration)
	}
	if cfg.PoolSize != 1 {
		t.Fatalf("PoolSize = %d, want 1", cfg.PoolSize)
	}
}

// TestConfigValidate_RejectsBadURL verifies that a malformed service URL fails.
func TestConfigValidate_RejectsBadURL(t *testing.T) {
	cfg := &Config{ServiceURL: "not a url"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed service URL")
	}
}

// TestConfigValidate_RejectsBreakerRatio verifies the failure ratio bound.
func TestConfigValidate_RejectsBreakerRatio(t *testing.T) {
	cfg := &Config{CircuitBreaker: CircuitBreaker{Enabled: true, FailureRatio: 1.5}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for failure ratio above 1")
	}
}

// TestTimeoutsWithDefaults verifies that WithDefaults preserves explicitly set
// timeout values and fills in defaults for zero values.
func TestTimeoutsWithDefaults(t *testing.T) {
	in := Timeouts{
		Connect:    time.Second,
		MaxBackoff: 42 * time.Second,
	}

	out := in.WithDefaults()

	// Provided values should be kept.
	if out.Connect != time.Second {
		t.Fatalf("Connect overwritten: got %v", out.Connect)
	}
	if out.MaxBackoff != 42*time.Second {
		t.Fatalf("MaxBackoff overwritten: got %v", out.MaxBackoff)
	}

	// Zero values filled with defaults.
	if out.ResponseHeader != 60*time.Second {
		t.Fatalf("ResponseHeader default mismatch: %v", out.ResponseHeader)
	}
	if out.Request != 120*time.Second {
		t.Fatalf("Request default mismatch: %v", out.Request)
	}
	if out.IdleConn != 90*time.Second {
		t.Fatalf("IdleConn default mismatch: %v", out.IdleConn)
	}
}

// TestCircuitBreakerWithDefaults verifies breaker defaults.
func TestCircuitBreakerWithDefaults(t *testing.T) {
	b := CircuitBreaker{Enabled: true, MinRequests: 10}.WithDefaults()
	if b.MinRequests != 10 {
		t.Fatalf("MinRequests overwritten: %d", b.MinRequests)
	}
	if b.MaxRequests != 1 || b.Interval != time.Minute || b.Timeout != 30*time.Second || b.FailureRatio != 0.6 {
		t.Fatalf("unexpected defaults: %+v", b)
	}
}
