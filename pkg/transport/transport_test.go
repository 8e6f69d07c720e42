package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rosette-api/rosette-sdk-go/internal/testutil/httpmock"
	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/model"
	"go.uber.org/zap"
)

func newTestTransport(t *testing.T, mutate func(*config.Config), opts ...Option) *Transport {
	t.Helper()
	cfg := &config.Config{}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	base := []Option{
		WithLogger(zap.NewNop()),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	}
	tr := New(cfg, append(base, opts...)...)
	t.Cleanup(tr.Close)
	return tr
}

func post(srv *httpmock.Server, path string) *Request {
	return &Request{
		Method:   http.MethodPost,
		URL:      srv.BaseURL() + path,
		Header:   http.Header{"Content-Type": {"application/json"}},
		Body:     []byte(`{"content":"hello"}`),
		Endpoint: path,
	}
}

// TestSend_RetriesServerErrors verifies that a 5xx reply is retried until the
// attempts are exhausted.
func TestSend_RetriesServerErrors(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "language", httpmock.Response{Status: http.StatusInternalServerError})
	tr := newTestTransport(t, func(c *config.Config) { c.Retries = 5 })

	_, err := tr.Send(context.Background(), post(srv, "language"))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := srv.Calls(http.MethodPost, "language"); got != 5 {
		t.Fatalf("calls = %d, want 5", got)
	}
	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T", err)
	}
	if e.Status != apierror.UnknownError {
		t.Fatalf("Status = %q", e.Status)
	}
	if e.Message != "A retryable network operation has not succeeded after 5 attempts" {
		t.Fatalf("Message = %q", e.Message)
	}
	if e.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus = %d", e.HTTPStatus)
	}
}

// TestSend_ServerErrorBody verifies that code and message of the last 5xx
// body are reported.
func TestSend_ServerErrorBody(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "entities",
		httpmock.JSON(http.StatusServiceUnavailable, map[string]string{"code": "overloaded", "message": "try later"}))
	tr := newTestTransport(t, nil)

	_, err := tr.Send(context.Background(), post(srv, "entities"))
	if apierror.StatusOf(err) != "overloaded" {
		t.Fatalf("status = %q (%v)", apierror.StatusOf(err), err)
	}
	if !strings.Contains(err.Error(), "try later") {
		t.Fatalf("message missing: %v", err)
	}
	if got := srv.Calls(http.MethodPost, "entities"); got != config.DefaultRetries {
		t.Fatalf("calls = %d, want %d", got, config.DefaultRetries)
	}
}

// TestSend_RecoversAfterServerError verifies that a success after a failed
// attempt is returned.
func TestSend_RecoversAfterServerError(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "language",
		httpmock.Response{Status: http.StatusBadGateway},
		httpmock.JSON(http.StatusOK, map[string]string{"ok": "yes"}))
	tr := newTestTransport(t, nil)

	resp, err := tr.Send(context.Background(), post(srv, "language"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != `{"ok":"yes"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
	if got := srv.Calls(http.MethodPost, "language"); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

// TestSend_ClientErrorNotRetried verifies that a 4xx reply is returned at once.
func TestSend_ClientErrorNotRetried(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "language",
		httpmock.JSON(http.StatusConflict, map[string]string{"code": "incompatibleClientVersion"}))
	tr := newTestTransport(t, nil)

	resp, err := tr.Send(context.Background(), post(srv, "language"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if code, _ := ErrorFields(resp); code != "incompatibleClientVersion" {
		t.Fatalf("code = %q", code)
	}
	if got := srv.Calls(http.MethodPost, "language"); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

// TestSend_Gzip verifies that gzip bodies are recognized by magic bytes.
func TestSend_Gzip(t *testing.T) {
	srv := httpmock.StartServer(t)
	reply := httpmock.JSON(http.StatusOK, map[string]string{"language": "eng"})
	reply.Gzip = true
	srv.Handle(http.MethodPost, "language", reply)
	tr := newTestTransport(t, nil)

	resp, err := tr.Send(context.Background(), post(srv, "language"))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(resp.Body) != `{"language":"eng"}` {
		t.Fatalf("body = %q", resp.Body)
	}
}

func TestGunzip_ShortOrPlain(t *testing.T) {
	for _, in := range [][]byte{nil, {0x1f, 0x8b, 0x08}, []byte(`{"a":1}`)} {
		out, err := gunzip(in)
		if err != nil {
			t.Fatalf("gunzip(%v): %v", in, err)
		}
		if string(out) != string(in) {
			t.Fatalf("gunzip(%v) = %v", in, out)
		}
	}
}

// TestSend_ConcurrencyHeader verifies that the pool follows the largest
// advertised concurrency, whatever the header case.
func TestSend_ConcurrencyHeader(t *testing.T) {
	tests := []struct {
		name  string
		reply httpmock.Response
		want  int
	}{
		{
			name:  "canonical",
			reply: httpmock.JSON(http.StatusOK, map[string]any{}).WithHeader(ConcurrencyHeader, "5"),
			want:  5,
		},
		{
			name: "mixed case takes max",
			reply: httpmock.JSON(http.StatusOK, map[string]any{}).
				WithHeader("x-rosetteapi-concurrency", "3").
				WithHeader("X-ROSETTEAPI-CONCURRENCY", "11"),
			want: 11,
		},
		{
			name:  "absent",
			reply: httpmock.JSON(http.StatusOK, map[string]any{}),
			want:  1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httpmock.StartServer(t)
			srv.Handle(http.MethodGet, "ping", tc.reply)
			tr := newTestTransport(t, nil)

			_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.BaseURL() + "ping"})
			if err != nil {
				t.Fatalf("Send: %v", err)
			}
			if got := tr.PoolSize(); got != tc.want {
				t.Fatalf("PoolSize = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestSend_NetworkFailure verifies that unreachable servers exhaust the
// attempts with an unknownError carrying the cause.
func TestSend_NetworkFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	addr := dead.URL
	dead.Close()

	tr := newTestTransport(t, func(c *config.Config) { c.Retries = 2 })
	_, err := tr.Send(context.Background(), &Request{Method: http.MethodGet, URL: addr + "/rest/v1/ping"})

	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("error type %T: %v", err, err)
	}
	if e.Status != apierror.UnknownError || e.Cause == nil {
		t.Fatalf("unexpected error %+v", e)
	}
	if e.Message != "A retryable network operation has not succeeded after 2 attempts" {
		t.Fatalf("Message = %q", e.Message)
	}
}

// TestSend_BackoffHonoursContext verifies that a cancelled context interrupts
// the wait between attempts.
func TestSend_BackoffHonoursContext(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	addr := dead.URL
	dead.Close()

	tr := newTestTransport(t, nil, WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Hour)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := tr.Send(ctx, &Request{Method: http.MethodGet, URL: addr + "/rest/v1/ping"})
	if !errors.Is(err, apierror.ErrConnection) {
		t.Fatalf("err = %v, want connectionError", err)
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("backoff ignored context")
	}
}

// TestConn_Refresh verifies when the pooled client is rebuilt.
func TestConn_Refresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tr := newTestTransport(t, func(c *config.Config) { c.RefreshDuration = time.Minute },
		WithClock(func() time.Time { return now }))

	httpURL, _ := url.Parse("http://localhost/rest/v1/ping")
	httpsURL, _ := url.Parse("https://localhost/rest/v1/ping")

	first := tr.conn(httpURL)
	if tr.conn(httpURL) != first {
		t.Fatal("client rebuilt without reason")
	}

	now = now.Add(time.Minute)
	second := tr.conn(httpURL)
	if second == first {
		t.Fatal("client not rebuilt after refresh duration")
	}

	if tr.conn(httpsURL) == second {
		t.Fatal("client not rebuilt after scheme change")
	}

	third := tr.conn(httpsURL)
	tr.SetPoolSize(4)
	if tr.conn(httpsURL) == third {
		t.Fatal("client not rebuilt after pool resize")
	}
}

// TestConn_NoReuse verifies that every request gets a fresh client when
// connection reuse is disabled.
func TestConn_NoReuse(t *testing.T) {
	tr := newTestTransport(t, func(c *config.Config) { c.DisableConnectionReuse = true })
	u, _ := url.Parse("http://localhost/")
	if tr.conn(u) == tr.conn(u) {
		t.Fatal("client reused with reuse disabled")
	}
}

// TestSendMultipart verifies the file and request parts.
func TestSendMultipart(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "entities", httpmock.JSON(http.StatusOK, map[string]any{"entities": []any{}}))
	tr := newTestTransport(t, nil)

	req := &Request{
		URL:      srv.BaseURL() + "entities",
		Header:   http.Header{"X-Rosetteapi-Key": {"k"}},
		Endpoint: "entities",
	}
	file := FilePart{Name: "doc.html", Data: []byte("<p>hi</p>"), ContentType: "text/html"}
	resp, err := tr.SendMultipart(context.Background(), req, file, map[string]any{"language": "eng"})
	if err != nil {
		t.Fatalf("SendMultipart: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	got, ok := srv.Last("entities")
	if !ok {
		t.Fatal("no request captured")
	}
	if string(got.Parts["content"]) != "<p>hi</p>" {
		t.Fatalf("content part = %q", got.Parts["content"])
	}
	if got.FileNames["content"] != "doc.html" || got.PartTypes["content"] != "text/html" {
		t.Fatalf("content part meta = %q %q", got.FileNames["content"], got.PartTypes["content"])
	}
	if string(got.Parts["request"]) != `{"language":"eng"}` {
		t.Fatalf("request part = %q", got.Parts["request"])
	}
	if got.Header.Get("X-RosetteAPI-Key") != "k" {
		t.Fatal("header not forwarded")
	}
}

// TestSendMultipart_GzipReply verifies that a gzip upload reply is
// decompressed like any other response.
func TestSendMultipart_GzipReply(t *testing.T) {
	srv := httpmock.StartServer(t)
	reply := httpmock.JSON(http.StatusOK, map[string]string{"language": "eng"})
	reply.Gzip = true
	srv.Handle(http.MethodPost, "entities", reply)
	tr := newTestTransport(t, nil)

	req := &Request{URL: srv.BaseURL() + "entities", Endpoint: "entities"}
	file := FilePart{Name: "doc.txt", Data: []byte("hi"), ContentType: "text/plain"}
	resp, err := tr.SendMultipart(context.Background(), req, file, map[string]any{})
	if err != nil {
		t.Fatalf("SendMultipart: %v", err)
	}
	if string(resp.Body) != `{"language":"eng"}` {
		t.Fatalf("body = %q", resp.Body)
	}
}

// TestBuildClient_PoolLimits verifies that the pool size caps connections
// per host.
func TestBuildClient_PoolLimits(t *testing.T) {
	tr := newTestTransport(t, func(c *config.Config) { c.PoolSize = 2 })
	u, _ := url.Parse("http://localhost/")

	for _, want := range []int{2, 4} {
		tr.SetPoolSize(want)
		ht, ok := tr.conn(u).Transport.(*http.Transport)
		if !ok {
			t.Fatalf("transport type %T", tr.conn(u).Transport)
		}
		if ht.MaxConnsPerHost != want || ht.MaxIdleConnsPerHost != want {
			t.Fatalf("pool %d: MaxConnsPerHost = %d, MaxIdleConnsPerHost = %d", want, ht.MaxConnsPerHost, ht.MaxIdleConnsPerHost)
		}
	}
}

// TestSend_CircuitBreaker verifies that the breaker opens after failures and
// short-circuits further calls.
func TestSend_CircuitBreaker(t *testing.T) {
	srv := httpmock.StartServer(t)
	srv.Handle(http.MethodPost, "language", httpmock.Response{Status: http.StatusInternalServerError})
	tr := newTestTransport(t, func(c *config.Config) {
		c.Retries = 1
		c.CircuitBreaker = config.CircuitBreaker{Enabled: true, MinRequests: 1, FailureRatio: 0.5, Timeout: time.Hour}
	})

	if _, err := tr.Send(context.Background(), post(srv, "language")); apierror.HTTPStatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("first call: %v", err)
	}
	_, err := tr.Send(context.Background(), post(srv, "language"))
	var e *apierror.Error
	if !errors.As(err, &e) || e.Message != "circuit breaker is open" {
		t.Fatalf("second call: %v", err)
	}
	if got := srv.Calls(http.MethodPost, "language"); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestDecode(t *testing.T) {
	resp := &Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"X-Rosetteapi-Request-Id": {"abc"}, "Vary": {"a", "b"}},
		Body:       []byte(`{"language":"eng","confidence":0.9}`),
	}
	got, err := Decode(resp)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["language"] != "eng" || got["confidence"] != 0.9 {
		t.Fatalf("unexpected result %v", got)
	}
	headers, ok := got[model.ResponseHeadersKey].(map[string]any)
	if !ok {
		t.Fatalf("missing %s", model.ResponseHeadersKey)
	}
	if headers["X-Rosetteapi-Request-Id"] != "abc" || headers["Vary"] != "a, b" {
		t.Fatalf("headers = %v", headers)
	}

	if _, err := Decode(&Response{Body: []byte("not json")}); apierror.StatusOf(err) != apierror.UnknownError {
		t.Fatalf("invalid JSON: %v", err)
	}
}
