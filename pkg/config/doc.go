// Package config provides configuration management for the Rosette client.
//
// This package defines the Config structure that controls client behavior:
// service URL, API key, retry and connection-reuse policy, network timeouts,
// and the optional circuit breaker.
//
// # Basic Configuration
//
// The public service only needs an API key:
//
//	cfg := &config.Config{
//		UserKey: "YOUR_API_KEY",
//	}
//
// On-premise deployments set the service URL instead; a trailing "/" is
// added when missing:
//
//	cfg := &config.Config{
//		ServiceURL: "http://rosette.internal:8181/rest/v1",
//	}
//
// # Retries and Connection Reuse
//
// Retries is the number of attempts made for a request that fails with a
// 5xx status or a network error (default 3, minimum 1). Connections are
// pooled and reused until RefreshDuration elapses (default 24h, minimum
// 60s); set DisableConnectionReuse to close them after every request.
//
// # Timeouts
//
//	cfg.Timeouts = config.Timeouts{
//		Connect:        5 * time.Second,  // TCP/TLS connect
//		ResponseHeader: 30 * time.Second, // wait for response headers
//		Request:        60 * time.Second, // whole request
//		MaxBackoff:     time.Minute,      // cap between reconnect attempts
//	}
//
// Zero values are replaced with defaults via WithDefaults().
//
// # Loading From Files and Environment
//
// Load reads a YAML/JSON/TOML file and ROSETTE_* environment variables:
//
//	cfg, err := config.Load("rosette.yaml")
//
// Environment keys mirror the file keys, upper-cased, with "." replaced by
// "_": ROSETTE_USER_KEY, ROSETTE_SERVICE_URL, ROSETTE_TIMEOUTS_CONNECT.
//
// # Configuration Validation
//
// Always call Validate() to apply defaults and check the service URL:
//
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
// sdk.New calls Validate itself.
//
// # Thread Safety
//
// Config instances should not be modified after being passed to sdk.New().
package config
