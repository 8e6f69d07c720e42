// Package endpoint executes one Rosette API operation: it turns the caller's
// input into a request body, attaches the authentication and binding headers,
// sends the request through the transport and maps the reply to a result or
// an *apierror.Error.
package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"github.com/rosette-api/rosette-sdk-go/pkg/params"
	"github.com/rosette-api/rosette-sdk-go/pkg/transport"
	"go.uber.org/zap"
)

// Env is a snapshot of the client state used by one call.
type Env struct {
	ServiceURL    string
	UserKey       string
	Debug         bool
	Options       map[string]any
	CustomHeaders map[string]string
	URLParams     map[string]string
	Logger        *zap.Logger
	// Sent, when set, is called once the request is handed to the transport.
	// Calls that fail before that point do not invoke it.
	Sent func()
}

// VersionCheck confirms that the server supports BindingVersion. A nil
// VersionCheck skips the check.
type VersionCheck func(ctx context.Context) error

// Caller binds a transport, a client state snapshot and an endpoint path.
type Caller struct {
	tr     *transport.Transport
	env    Env
	path   model.Endpoint
	check  VersionCheck
	logger *zap.Logger
}

// New returns a Caller for path.
func New(tr *transport.Transport, env Env, path model.Endpoint, check VersionCheck) *Caller {
	logger := env.Logger
	if logger == nil {
		logger = zap.L()
	}
	return &Caller{tr: tr, env: env, path: path, check: check, logger: logger}
}

// Path returns the endpoint path of the caller.
func (c *Caller) Path() model.Endpoint {
	return c.path
}

// Call runs the endpoint with input, which is either plain text (document
// endpoints only) or a params.Parameters of the kind the endpoint expects.
func (c *Caller) Call(ctx context.Context, input any) (model.Result, error) {
	log := c.logger.With(zap.String("request_id", uuid.NewString()), zap.String("endpoint", string(c.path)))

	p, err := c.parameters(input)
	if err != nil {
		return nil, err
	}
	body, err := p.Serialize(c.env.Options)
	if err != nil {
		log.Debug("invalid parameters", zap.Error(err))
		return nil, err
	}
	if c.check != nil {
		if err := c.check(ctx); err != nil {
			return nil, err
		}
	}

	target, err := c.url(c.path, nil)
	if err != nil {
		return nil, err
	}

	var resp *transport.Response
	if doc, ok := p.(*params.DocumentParams); ok && doc.Multipart() {
		name, data, contentType, _ := doc.File()
		delete(body, params.Content)
		header, err := c.headers("")
		if err != nil {
			return nil, err
		}
		log.Debug("uploading document", zap.String("file", name), zap.Int("bytes", len(data)))
		c.sent()
		resp, err = c.tr.SendMultipart(ctx, &transport.Request{URL: target, Header: header, Endpoint: string(c.path)},
			transport.FilePart{Name: name, Data: data, ContentType: contentType}, body)
		if err != nil {
			return nil, err
		}
	} else {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apierror.Wrap(apierror.BadArgument, "unable to encode parameters", string(c.path), err)
		}
		header, err := c.headers(jsonMediaType)
		if err != nil {
			return nil, err
		}
		log.Debug("sending request", zap.String("url", target))
		c.sent()
		resp, err = c.tr.Send(ctx, &transport.Request{
			Method:   http.MethodPost,
			URL:      target,
			Header:   header,
			Body:     payload,
			Endpoint: string(c.path),
		})
		if err != nil {
			return nil, err
		}
	}
	return c.interpret(http.MethodPost, resp)
}

// Get runs a parameterless GET, as used by ping and info. No version check
// is made.
func (c *Caller) Get(ctx context.Context) (model.Result, error) {
	target, err := c.url(c.path, nil)
	if err != nil {
		return nil, err
	}
	header, err := c.headers("")
	if err != nil {
		return nil, err
	}
	c.logger.Debug("sending request", zap.String("request_id", uuid.NewString()), zap.String("url", target))
	c.sent()
	resp, err := c.tr.Send(ctx, &transport.Request{
		Method:   http.MethodGet,
		URL:      target,
		Header:   header,
		Endpoint: string(c.path),
	})
	if err != nil {
		return nil, err
	}
	return c.interpret(http.MethodGet, resp)
}

// CheckVersion asks the server whether it supports BindingVersion. Only an
// explicit negative answer fails.
func (c *Caller) CheckVersion(ctx context.Context) error {
	header, err := c.headers(jsonMediaType)
	if err != nil {
		return err
	}
	target, err := c.url(model.Info, url.Values{"clientVersion": {BindingVersion}})
	if err != nil {
		return err
	}
	resp, err := c.tr.Send(ctx, &transport.Request{
		Method:   http.MethodPost,
		URL:      target,
		Header:   header,
		Endpoint: string(model.Info),
	})
	if err != nil {
		return err
	}
	result, err := c.interpret(http.MethodPost, resp)
	if err != nil {
		return err
	}
	if ok, present := result["versionChecked"].(bool); present && !ok {
		version, _ := result["version"].(string)
		return apierror.New(apierror.IncompatibleVersion,
			"The server version is not compatible with binding version "+BindingVersion, majorMinor(version))
	}
	c.logger.Debug("server version accepted", zap.Any("version", result["version"]))
	return nil
}

// parameters converts input into the parameter set for the endpoint.
func (c *Caller) parameters(input any) (params.Parameters, error) {
	switch in := input.(type) {
	case string:
		if !c.path.AcceptsText() {
			return nil, apierror.New(apierror.Incompatible,
				"Text-only input only works for DocumentParameter endpoints", string(c.path))
		}
		return params.NewText(in), nil
	case params.Parameters:
		if want := expectedKind(c.path); in.Kind() != want {
			return nil, apierror.Newf(apierror.Incompatible, string(c.path),
				"%s parameters cannot be used with this endpoint; expected %s parameters", in.Kind(), want)
		}
		return in, nil
	case map[string]any:
		p := params.New(expectedKind(c.path))
		for k, v := range in {
			if err := p.Set(k, v); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	return nil, apierror.Newf(apierror.Incompatible, string(c.path), "unsupported input type %T", input)
}

func expectedKind(path model.Endpoint) params.Kind {
	switch path {
	case model.NameTranslation:
		return params.NameTranslationKind
	case model.NameSimilarity:
		return params.NameSimilarityKind
	case model.NameDeduplication:
		return params.NameDeduplicationKind
	case model.AddressSimilarity:
		return params.AddressSimilarityKind
	case model.RecordSimilarity:
		return params.RecordSimilarityKind
	}
	return params.DocumentKind
}

func (c *Caller) sent() {
	if c.env.Sent != nil {
		c.env.Sent()
	}
}

// url joins path to the service URL and adds the debug flag, the client URL
// parameters and extra.
func (c *Caller) url(path model.Endpoint, extra url.Values) (string, error) {
	u, err := url.Parse(c.env.ServiceURL + string(path))
	if err != nil {
		return "", apierror.Wrap(apierror.BadArgument, "invalid service URL", c.env.ServiceURL, err)
	}
	q := u.Query()
	if c.env.Debug {
		q.Set("debug", "true")
	}
	for k, v := range c.env.URLParams {
		q.Set(k, v)
	}
	for k, vs := range extra {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// headers builds the request headers. An empty contentType leaves
// Content-Type to the transport.
func (c *Caller) headers(contentType string) (http.Header, error) {
	h := http.Header{}
	for name, value := range c.env.CustomHeaders {
		if !strings.HasPrefix(name, CustomHeaderPrefix) {
			return nil, apierror.New(apierror.BadHeader,
				"Custom header name must begin with \""+CustomHeaderPrefix+"\"", name)
		}
		h.Set(name, value)
	}
	if c.env.UserKey != "" {
		h.Set(UserKeyHeader, c.env.UserKey)
	}
	h.Set(BindingHeader, BindingName)
	h.Set(BindingVersionHeader, BindingVersion)
	h.Set(UserAgentHeader, UserAgent)
	h.Set(AcceptHeader, jsonMediaType)
	h.Set(AcceptEncodingHeader, "gzip")
	if contentType != "" {
		h.Set(ContentTypeHeader, contentType)
	}
	return h, nil
}

// interpret maps a reply to a result (200) or an error.
func (c *Caller) interpret(method string, resp *transport.Response) (model.Result, error) {
	if resp.StatusCode == http.StatusOK {
		result, err := transport.Decode(resp)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	code, message := transport.ErrorFields(resp)
	if message == "" {
		message = code
	}
	if message == "" {
		message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	err := apierror.Remote(resp.StatusCode, code, message, method+" "+string(c.path))
	c.logger.Debug("request rejected", zap.Error(err))
	return nil, err
}

// majorMinor returns the "major.minor" prefix of a version string.
func majorMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return fmt.Sprintf("%s.%s", parts[0], parts[1])
}
