package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"go.uber.org/zap"
)

// Request is one outgoing call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// Endpoint labels metrics and logs, e.g. "language".
	Endpoint string
}

// Response is a fully read HTTP response. Body is already decompressed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// FilePart is the document uploaded by SendMultipart.
type FilePart struct {
	Name        string
	Data        []byte
	ContentType string
}

// Send performs req, retrying 5xx responses immediately and network failures
// after a backoff wait. Non-5xx responses are returned as is, whatever their
// status.
func (t *Transport) Send(ctx context.Context, req *Request) (*Response, error) {
	if t.breaker == nil {
		return t.send(ctx, req)
	}
	v, err := t.breaker.Execute(func() (any, error) {
		return t.send(ctx, req)
	})
	if err != nil {
		return nil, breakerError(err, req.URL)
	}
	return v.(*Response), nil
}

func (t *Transport) send(ctx context.Context, req *Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, apierror.Wrap(apierror.BadArgument, "invalid request URL", req.URL, err)
	}
	log := t.logger.With(zap.String("method", req.Method), zap.String("url", req.URL))

	var (
		b       backoff.BackOff
		lastErr error
		code    string
		message string
		status  int
	)
	for attempt := 1; attempt <= t.retries; attempt++ {
		resp, err := t.do(ctx, u, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, apierror.Wrap(apierror.ConnectionError, "request cancelled", req.URL, ctx.Err())
			}
			lastErr, code, message, status = err, "", "", 0
			t.reset()
			if attempt == t.retries {
				break
			}
			if b == nil {
				b = t.newBackOff()
			}
			wait := b.NextBackOff()
			if wait == backoff.Stop {
				break
			}
			log.Warn("network failure, retrying",
				zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
			t.metrics.RecordRetry(req.Endpoint, "network")
			if err := sleep(ctx, wait); err != nil {
				return nil, apierror.Wrap(apierror.ConnectionError, "request cancelled", req.URL, err)
			}
			continue
		}

		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		status = resp.StatusCode
		code, message = errorFields(resp.Body)
		lastErr = fmt.Errorf("server returned HTTP %d", resp.StatusCode)
		if attempt < t.retries {
			log.Debug("server error, retrying",
				zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode), zap.String("code", code))
			t.metrics.RecordRetry(req.Endpoint, "status")
		}
	}

	if code == "" {
		code = apierror.UnknownError
	}
	if message == "" {
		message = fmt.Sprintf("A retryable network operation has not succeeded after %d attempts", t.retries)
	}
	e := apierror.Wrap(code, message, req.URL, lastErr)
	e.HTTPStatus = status
	t.metrics.RecordError(req.Endpoint, e.Status)
	log.Error("request failed", zap.Int("attempts", t.retries), zap.Error(e))
	return nil, e
}

// do performs a single attempt and reads the whole body.
func (t *Transport) do(ctx context.Context, u *url.URL, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	start := time.Now()
	resp, err := t.conn(u).Do(httpReq)
	if err != nil {
		t.metrics.RecordRequest(req.Method, req.Endpoint, 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	t.metrics.RecordRequest(req.Method, req.Endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, err
	}
	t.observeConcurrency(resp.Header)

	data, err := gunzip(raw)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// SendMultipart posts a file-backed document: the file as part "content" and
// the remaining parameters as JSON part "request". req.Method and req.Body are
// ignored. It makes a single attempt; a gzip reply is decompressed.
func (t *Transport) SendMultipart(ctx context.Context, req *Request, file FilePart, request map[string]any) (*Response, error) {
	rawURL := req.URL
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, apierror.Wrap(apierror.BadArgument, "invalid request URL", rawURL, err)
	}
	reqJSON, err := json.Marshal(request)
	if err != nil {
		return nil, apierror.Wrap(apierror.BadArgument, "unable to encode request", rawURL, err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := writePart(mw, "content", file.Name, file.ContentType, file.Data); err != nil {
		return nil, apierror.Wrap(apierror.UnknownError, "unable to build multipart body", rawURL, err)
	}
	if err := writePart(mw, "request", "request_options", "application/json", reqJSON); err != nil {
		return nil, apierror.Wrap(apierror.UnknownError, "unable to build multipart body", rawURL, err)
	}
	if err := mw.Close(); err != nil {
		return nil, apierror.Wrap(apierror.UnknownError, "unable to build multipart body", rawURL, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return nil, apierror.Wrap(apierror.BadArgument, "invalid request", rawURL, err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	endpoint := req.Endpoint
	start := time.Now()
	resp, err := t.conn(u).Do(httpReq)
	if err != nil {
		t.metrics.RecordRequest(http.MethodPost, endpoint, 0, time.Since(start))
		t.reset()
		return nil, apierror.Wrap(apierror.ConnectionError, "unable to upload document", rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	t.metrics.RecordRequest(http.MethodPost, endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, apierror.Wrap(apierror.ConnectionError, "unable to read response", rawURL, err)
	}
	t.observeConcurrency(resp.Header)

	body, err := gunzip(raw)
	if err != nil {
		return nil, apierror.Wrap(apierror.UnknownError, "unable to decompress response", rawURL, err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func writePart(mw *multipart.Writer, field, fileName, contentType string, data []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// observeConcurrency resizes the pool to the largest concurrency value the
// server advertised, if any.
func (t *Transport) observeConcurrency(h http.Header) {
	best := 0
	for k, vs := range h {
		if !strings.EqualFold(k, ConcurrencyHeader) {
			continue
		}
		for _, v := range vs {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err == nil && n > best {
				best = n
			}
		}
	}
	if best > 0 && best != t.PoolSize() {
		t.SetPoolSize(best)
	}
}

// errorFields extracts code and message from a JSON error body.
func errorFields(body []byte) (code, message string) {
	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return "", ""
	}
	return e.Code, e.Message
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
