// Package transport performs the HTTP exchanges with the Rosette API. It owns
// the pooled connection, retries failed requests, decompresses gzip bodies,
// tracks the concurrency hint advertised by the server, and sends multipart
// uploads for file-backed documents.
package transport

import (
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// ConcurrencyHeader advertises how many parallel requests the server accepts.
// It is matched without regard to letter case.
const ConcurrencyHeader = "X-RosetteAPI-Concurrency"

// Option customizes a Transport.
type Option func(*Transport)

// WithLogger sets the logger. Default: zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(c *metrics.Collector) Option {
	return func(t *Transport) { t.metrics = c }
}

// WithBackOff replaces the wait policy used between attempts that failed at
// the network level.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(t *Transport) { t.newBackOff = f }
}

// WithClock replaces the clock used for connection refresh.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) { t.now = now }
}

// Transport is safe for concurrent use. All connection state is owned by the
// instance; independent clients never share a pool.
type Transport struct {
	retries  int
	reuse    bool
	refresh  time.Duration
	timeouts config.Timeouts
	http2    bool

	mu       sync.Mutex
	client   *http.Client
	scheme   string
	openedAt time.Time
	poolSize int

	now        func() time.Time
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
	metrics    *metrics.Collector
	breaker    *gobreaker.CircuitBreaker
}

// New builds a Transport from a validated configuration.
func New(cfg *config.Config, opts ...Option) *Transport {
	t := &Transport{
		retries:  max(cfg.Retries, 1),
		reuse:    !cfg.DisableConnectionReuse,
		refresh:  cfg.RefreshDuration,
		timeouts: cfg.Timeouts.WithDefaults(),
		http2:    !cfg.DisableHTTP2,
		poolSize: max(cfg.PoolSize, 1),
		now:      time.Now,
		logger:   zap.L(),
	}
	t.newBackOff = t.defaultBackOff
	for _, opt := range opts {
		opt(t)
	}
	if cfg.CircuitBreaker.Enabled {
		t.breaker = newBreaker(cfg.CircuitBreaker, t.logger, t.metrics)
	}
	t.metrics.SetPoolSize(t.poolSize)
	return t
}

// PoolSize returns the current connection pool size.
func (t *Transport) PoolSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.poolSize
}

// SetPoolSize resizes the connection pool. Values below one are raised to one.
// The pool is rebuilt on the next request.
func (t *Transport) SetPoolSize(n int) {
	n = max(n, 1)
	t.mu.Lock()
	changed := n != t.poolSize
	if changed {
		t.poolSize = n
		t.dropLocked()
	}
	t.mu.Unlock()
	if changed {
		t.logger.Debug("connection pool resized", zap.Int("pool_size", n))
		t.metrics.SetPoolSize(n)
	}
}

// Close releases idle connections.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropLocked()
}

// conn returns the pooled client for u, recreating it when reuse is off, the
// scheme changed, or the refresh duration elapsed.
func (t *Transport) conn(u *url.URL) *http.Client {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.client == nil || !t.reuse || u.Scheme != t.scheme || now.Sub(t.openedAt) >= t.refresh {
		t.dropLocked()
		t.client = t.buildClient()
		t.scheme = u.Scheme
		t.openedAt = now
	}
	return t.client
}

// reset discards the pooled client after a network failure.
func (t *Transport) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropLocked()
}

func (t *Transport) dropLocked() {
	if t.client != nil {
		t.client.CloseIdleConnections()
		t.client = nil
	}
}

// buildClient creates an HTTP client sized to the pool. HTTP/2 is configured
// explicitly because a customized http.Transport does not negotiate it on
// its own.
func (t *Transport) buildClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   t.timeouts.Connect,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   t.timeouts.Connect,
		ResponseHeaderTimeout: t.timeouts.ResponseHeader,
		IdleConnTimeout:       t.timeouts.IdleConn,
		MaxIdleConns:          t.poolSize * 2,
		MaxIdleConnsPerHost:   t.poolSize,
		MaxConnsPerHost:       t.poolSize,
		DisableKeepAlives:     !t.reuse,
		// gzip is detected by magic bytes on the raw body.
		DisableCompression: true,
	}
	if t.http2 {
		if _, err := http2.ConfigureTransports(tr); err != nil {
			t.logger.Warn("http2 unavailable, using HTTP/1.1", zap.Error(err))
		}
	}
	return &http.Client{
		Transport: tr,
		Timeout:   t.timeouts.Request,
	}
}

// defaultBackOff waits 5s, then grows exponentially up to MaxBackoff.
func (t *Transport) defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0.1
	b.MaxInterval = t.timeouts.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
