// Package sdk is the entry point of the Rosette API client. A Client holds
// the connection settings, the client-wide options, URL parameters and custom
// headers, and exposes one method per Rosette endpoint.
package sdk

import (
	"context"
	"maps"
	"sync"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/endpoint"
	"github.com/rosette-api/rosette-sdk-go/pkg/metrics"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"github.com/rosette-api/rosette-sdk-go/pkg/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Rosette is the public interface of the client. Document endpoints accept
// plain text or *params.DocumentParams; the name and record endpoints accept
// the matching parameter set from package params.
type Rosette interface {
	// Ping checks that the service is reachable.
	Ping(ctx context.Context) (model.Result, error)
	// Info returns the server name and version.
	Info(ctx context.Context) (model.Result, error)

	Language(ctx context.Context, input any) (model.Result, error)
	Sentences(ctx context.Context, input any) (model.Result, error)
	Tokens(ctx context.Context, input any) (model.Result, error)
	// Morphology returns the requested facet of the morphological analysis.
	Morphology(ctx context.Context, input any, facet model.MorphologyOutput) (model.Result, error)
	Entities(ctx context.Context, input any) (model.Result, error)
	Categories(ctx context.Context, input any) (model.Result, error)
	Sentiment(ctx context.Context, input any) (model.Result, error)
	Relationships(ctx context.Context, input any) (model.Result, error)
	Events(ctx context.Context, input any) (model.Result, error)
	Topics(ctx context.Context, input any) (model.Result, error)
	Transliteration(ctx context.Context, input any) (model.Result, error)
	SyntaxDependencies(ctx context.Context, input any) (model.Result, error)
	TextEmbedding(ctx context.Context, input any) (model.Result, error)
	SemanticVectors(ctx context.Context, input any) (model.Result, error)
	SimilarTerms(ctx context.Context, input any) (model.Result, error)

	NameTranslation(ctx context.Context, input any) (model.Result, error)
	NameSimilarity(ctx context.Context, input any) (model.Result, error)
	NameDeduplication(ctx context.Context, input any) (model.Result, error)
	AddressSimilarity(ctx context.Context, input any) (model.Result, error)
	RecordSimilarity(ctx context.Context, input any) (model.Result, error)

	// CheckVersion confirms once per client that the server supports this
	// binding version.
	CheckVersion(ctx context.Context) error

	// Close releases pooled connections.
	Close()
}

var _ Rosette = (*Client)(nil)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and its transport.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
		c.loggerSet = true
	}
}

// WithMetrics records Prometheus metrics for every request.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransportOptions passes extra options to the underlying transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(c *Client) { c.trOpts = append(c.trOpts, opts...) }
}

// Client is safe for concurrent use.
type Client struct {
	cfg       config.Config
	tr        *transport.Transport
	logger    *zap.Logger
	loggerSet bool
	metrics   *metrics.Collector
	trOpts    []transport.Option

	mu             sync.RWMutex
	options        map[string]any
	customHeaders  map[string]string
	urlParams      map[string]string
	versionChecked bool
	versionGroup   singleflight.Group

	deprecated sync.Map
}

// New creates a client. cfg is copied and validated; nil means the public
// service with default settings.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	c := &Client{
		logger:        zap.L(),
		options:       map[string]any{},
		customHeaders: map[string]string{},
		urlParams:     map[string]string{},
	}
	if cfg != nil {
		c.cfg = *cfg
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, apierror.Wrap(apierror.BadArgument, "invalid configuration", "", err)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.Debug && !c.loggerSet {
		if l, err := zap.NewDevelopment(); err == nil {
			c.logger = l
		}
	}
	if c.cfg.Debug {
		c.logger.Debug("rosette client created",
			zap.String("service_url", c.cfg.ServiceURL),
			zap.Int("retries", c.cfg.Retries),
			zap.Int("pool_size", c.cfg.PoolSize))
	}

	trOpts := append([]transport.Option{
		transport.WithLogger(c.logger),
		transport.WithMetrics(c.metrics),
	}, c.trOpts...)
	c.tr = transport.New(&c.cfg, trOpts...)
	return c, nil
}

// Close releases pooled connections.
func (c *Client) Close() {
	c.tr.Close()
}

// ServiceURL returns the API root the client talks to.
func (c *Client) ServiceURL() string {
	return c.cfg.ServiceURL
}

// PoolSize returns the current connection pool size.
func (c *Client) PoolSize() int {
	return c.tr.PoolSize()
}

// SetPoolSize resizes the connection pool.
func (c *Client) SetPoolSize(n int) {
	c.tr.SetPoolSize(n)
}

// SetOption sets a client-wide option sent with every document request. A
// nil value removes the option.
func (c *Client) SetOption(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == nil {
		delete(c.options, name)
		return
	}
	c.options[name] = value
}

// Option returns the option stored under name, or nil.
func (c *Client) Option(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options[name]
}

// ClearOptions removes every option.
func (c *Client) ClearOptions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.options)
}

// SetCustomHeader sets a header sent with the next request. The name must
// begin with "X-RosetteAPI-"; this is checked when the request is built. An
// empty value removes the header.
func (c *Client) SetCustomHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		delete(c.customHeaders, name)
		return
	}
	c.customHeaders[name] = value
}

// CustomHeaders returns a copy of the pending custom headers.
func (c *Client) CustomHeaders() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.customHeaders)
}

// ClearCustomHeaders removes every pending custom header.
func (c *Client) ClearCustomHeaders() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.customHeaders)
}

// SetURLParameter adds a query parameter to every request. An empty value
// removes it.
func (c *Client) SetURLParameter(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		delete(c.urlParams, name)
		return
	}
	c.urlParams[name] = value
}

// URLParameter returns the query parameter stored under name.
func (c *Client) URLParameter(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.urlParams[name]
}

// ClearURLParameters removes every query parameter.
func (c *Client) ClearURLParameters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.urlParams)
}

// CheckVersion confirms that the server supports this binding version. A
// successful answer is remembered; concurrent first calls share one request.
// The shared request is not cancelled with ctx, so one caller giving up does
// not fail the others; that caller alone returns a connectionError.
func (c *Client) CheckVersion(ctx context.Context) error {
	c.mu.RLock()
	done := c.versionChecked
	c.mu.RUnlock()
	if done {
		return nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.versionGroup.DoChan("version", func() (any, error) {
		c.mu.RLock()
		done := c.versionChecked
		c.mu.RUnlock()
		if done {
			return nil, nil
		}
		if err := endpoint.New(c.tr, c.env(false), model.Info, nil).CheckVersion(shared); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.versionChecked = true
		c.mu.Unlock()
		return nil, nil
	})
	if err := ctx.Err(); err != nil {
		return apierror.Wrap(apierror.ConnectionError, "request cancelled", string(model.Info), err)
	}
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return apierror.Wrap(apierror.ConnectionError, "request cancelled", string(model.Info), ctx.Err())
	}
}

// env snapshots the client state for one call. When takeHeaders is set the
// pending custom headers are included and cleared once the request is handed
// to the transport; a call that fails earlier leaves them pending.
func (c *Client) env(takeHeaders bool) endpoint.Env {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := endpoint.Env{
		ServiceURL: c.cfg.ServiceURL,
		UserKey:    c.cfg.UserKey,
		Debug:      c.cfg.Debug,
		Options:    maps.Clone(c.options),
		URLParams:  maps.Clone(c.urlParams),
		Logger:     c.logger,
	}
	if takeHeaders && len(c.customHeaders) > 0 {
		taken := maps.Clone(c.customHeaders)
		e.CustomHeaders = taken
		e.Sent = func() { c.consumeHeaders(taken) }
	}
	return e
}

// consumeHeaders removes the sent headers unless they were changed since.
func (c *Client) consumeHeaders(sent map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, value := range sent {
		if c.customHeaders[name] == value {
			delete(c.customHeaders, name)
		}
	}
}

func (c *Client) call(ctx context.Context, path model.Endpoint, input any) (model.Result, error) {
	return endpoint.New(c.tr, c.env(true), path, c.CheckVersion).Call(ctx, input)
}

func (c *Client) get(ctx context.Context, path model.Endpoint) (model.Result, error) {
	return endpoint.New(c.tr, c.env(true), path, nil).Get(ctx)
}
