// Package testkit provides an httptest-backed server with a fluent request
// builder and assertions for the JSON error envelope.
package testkit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/inkwell/httperr"
)

// Server wraps httptest.Server with convenience methods for testing.
type Server struct {
	*httptest.Server
	t *testing.T
}

// NewServer starts a test server for h; it is closed when the test ends.
func NewServer(t *testing.T, h http.Handler) *Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &Server{Server: srv, t: t}
}

// Request starts building a request against the server.
func (s *Server) Request(method, path string) *RequestBuilder {
	return &RequestBuilder{server: s, method: method, path: path, header: make(http.Header)}
}

// Get creates a GET request builder.
func (s *Server) Get(path string) *RequestBuilder { return s.Request(http.MethodGet, path) }

// Post creates a POST request builder.
func (s *Server) Post(path string) *RequestBuilder { return s.Request(http.MethodPost, path) }

// RequestBuilder builds and executes HTTP requests.
type RequestBuilder struct {
	server *Server
	method string
	path   string
	header http.Header
	body   string
}

// Header sets a request header.
func (rb *RequestBuilder) Header(key, value string) *RequestBuilder {
	rb.header.Set(key, value)
	return rb
}

// Origin sets the Origin header.
func (rb *RequestBuilder) Origin(origin string) *RequestBuilder {
	return rb.Header("Origin", origin)
}

// Cookie adds a cookie to the request.
func (rb *RequestBuilder) Cookie(name, value string) *RequestBuilder {
	if existing := rb.header.Get("Cookie"); existing != "" {
		rb.header.Set("Cookie", existing+"; "+name+"="+value)
	} else {
		rb.header.Set("Cookie", name+"="+value)
	}
	return rb
}

// JSON sets a raw JSON body and the application/json Content-Type.
func (rb *RequestBuilder) JSON(body string) *RequestBuilder {
	rb.body = body
	rb.header.Set("Content-Type", "application/json")
	return rb
}

// Do executes the request.
func (rb *RequestBuilder) Do() *Response {
	t := rb.server.t
	t.Helper()

	req, err := http.NewRequest(rb.method, rb.server.URL+rb.path, strings.NewReader(rb.body))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header = rb.header

	resp, err := rb.server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to execute request: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return &Response{Response: resp, Body: body, t: t}
}

// Response wraps http.Response with assertion methods.
type Response struct {
	*http.Response
	Body []byte
	t    *testing.T
}

// Status asserts the response status code.
func (r *Response) Status(code int) *Response {
	r.t.Helper()
	if r.StatusCode != code {
		r.t.Errorf("expected status %d, got %d\nBody: %s", code, r.StatusCode, string(r.Body))
	}
	return r
}

// HeaderEquals asserts a header value.
func (r *Response) HeaderEquals(key, expected string) *Response {
	r.t.Helper()
	if actual := r.Header.Get(key); actual != expected {
		r.t.Errorf("expected header %s=%q, got %q", key, expected, actual)
	}
	return r
}

// BodyContains asserts the body contains a substring.
func (r *Response) BodyContains(substr string) *Response {
	r.t.Helper()
	if !strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body to contain %q, got %q", substr, string(r.Body))
	}
	return r
}

// Envelope asserts the body is exactly the error envelope with the given
// status code and message, and that the HTTP status matches.
func (r *Response) Envelope(status int, message string) *Response {
	r.t.Helper()
	r.Status(status)

	var fields map[string]any
	if err := json.Unmarshal(r.Body, &fields); err != nil {
		r.t.Fatalf("body is not JSON: %v\nBody: %s", err, string(r.Body))
	}
	want := map[string]any{"success": false, "statusCode": float64(status), "message": message}
	if len(fields) != len(want) {
		r.t.Errorf("envelope has fields %v, want exactly success/statusCode/message", fields)
	}
	for k, v := range want {
		if fields[k] != v {
			r.t.Errorf("envelope %s = %v, want %v", k, fields[k], v)
		}
	}
	return r
}

// DecodeEnvelope returns the decoded error envelope.
func (r *Response) DecodeEnvelope() httperr.Response {
	r.t.Helper()
	var env httperr.Response
	if err := json.Unmarshal(r.Body, &env); err != nil {
		r.t.Fatalf("body is not an envelope: %v\nBody: %s", err, string(r.Body))
	}
	return env
}
