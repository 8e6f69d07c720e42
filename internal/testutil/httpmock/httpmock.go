// Package httpmock provides an in-process scripted HTTP server standing in for
// the Rosette API in tests. Responses are registered per method and path; each
// request is captured for later inspection.
package httpmock

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// BasePath is the path prefix the server serves, mirroring the public API.
const BasePath = "/rest/v1/"

// Response is one scripted reply.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
	// Gzip compresses Body before writing it, without a Content-Encoding header.
	Gzip bool
}

// JSON returns a Response with v encoded as the body.
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Response{Status: status, Body: body, Header: http.Header{"Content-Type": {"application/json"}}}
}

// WithHeader returns a copy of r with an additional header value. The key is
// stored as given, without canonicalization.
func (r Response) WithHeader(key, value string) Response {
	h := r.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h[key] = append(h[key], value)
	r.Header = h
	return r
}

// Capture records one received request.
type Capture struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	// Parts holds multipart bodies by form name; PartTypes their content types.
	Parts     map[string][]byte
	PartTypes map[string]string
	FileNames map[string]string
}

// Server is a scripted HTTP server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string][]Response
	calls    map[string]int
	captured []Capture
}

// StartServer starts a server that is closed when the test ends.
func StartServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		routes: map[string][]Response{},
		calls:  map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the service URL to configure the client with.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

// Handle scripts the replies for method and path (relative to BasePath).
// Replies are used in order; the last one repeats.
func (s *Server) Handle(method, path string, responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = responses
}

// Calls returns how many requests were received for method and path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// Requests returns every captured request in arrival order.
func (s *Server) Requests() []Capture {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Capture, len(s.captured))
	copy(out, s.captured)
	return out
}

// Last returns the most recent request for path, and false if none.
func (s *Server) Last(path string) (Capture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.captured) - 1; i >= 0; i-- {
		if s.captured[i].Path == path {
			return s.captured[i], true
		}
	}
	return Capture{}, false
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, BasePath)
	capture := Capture{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}
	parseMultipart(&capture, r.Header.Get("Content-Type"))

	key := r.Method + " " + path
	s.mu.Lock()
	s.captured = append(s.captured, capture)
	n := s.calls[key]
	s.calls[key] = n + 1
	responses, ok := s.routes[key]
	s.mu.Unlock()

	if !ok || len(responses) == 0 {
		write(w, JSON(http.StatusNotFound, map[string]string{"code": "notFound", "message": "no route for " + key}))
		return
	}
	if n >= len(responses) {
		n = len(responses) - 1
	}
	write(w, responses[n])
}

func write(w http.ResponseWriter, resp Response) {
	for k, vs := range resp.Header {
		w.Header()[k] = append([]string(nil), vs...)
	}
	body := resp.Body
	if resp.Gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(body)
		_ = zw.Close()
		body = buf.Bytes()
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func parseMultipart(c *Capture, contentType string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return
	}
	c.Parts = map[string][]byte{}
	c.PartTypes = map[string]string{}
	c.FileNames = map[string]string{}
	mr := multipart.NewReader(bytes.NewReader(c.Body), params["boundary"])
	for {
		p, err := mr.NextPart()
		if err != nil {
			return
		}
		data, _ := io.ReadAll(p)
		c.Parts[p.FormName()] = data
		c.PartTypes[p.FormName()] = p.Header.Get("Content-Type")
		c.FileNames[p.FormName()] = p.FileName()
	}
}
