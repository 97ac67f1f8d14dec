package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/inkwell/httperr"
)

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/post/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return req
}

func TestParseJSON_WellFormed(t *testing.T) {
	type post struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	var (
		got     post
		generic any
		again   []byte
	)
	h := ParseJSON(1<<10, writeErr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := DecodeBody(r, &got); err != nil {
			t.Errorf("DecodeBody: %v", err)
		}
		generic, _ = Body(r)
		again, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonRequest(`{"title":"Hello","content":"World"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got.Title != "Hello" || got.Content != "World" {
		t.Errorf("decoded = %+v", got)
	}
	m, ok := generic.(map[string]any)
	if !ok || m["title"] != "Hello" {
		t.Errorf("Body = %#v", generic)
	}
	if string(again) != `{"title":"Hello","content":"World"}` {
		t.Errorf("r.Body re-read = %q", again)
	}
}

func TestParseJSON_EmptyBodyIsEmptyObject(t *testing.T) {
	var got any
	h := ParseJSON(0, writeErr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = Body(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonRequest(""))

	if m, ok := got.(map[string]any); !ok || len(m) != 0 {
		t.Errorf("Body = %#v, want empty map", got)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `{"title":}`},
		{"truncated", `{"title":"a"`},
		{"scalar", `"just a string"`},
		{"trailing value", `{"a":1} {"b":2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			h := ParseJSON(0, writeErr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, jsonRequest(tt.body))

			if reached {
				t.Error("handler reached with malformed body")
			}
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", rec.Code)
			}
			var body httperr.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.StatusCode != 500 || body.Message == "" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestParseJSON_TooLarge(t *testing.T) {
	h := ParseJSON(8, writeErr)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonRequest(`{"title":"much too long"}`))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestParseJSON_NonJSONPassesThrough(t *testing.T) {
	var ok bool
	h := ParseJSON(0, writeErr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = Body(r)
		b, _ := io.ReadAll(r.Body)
		if string(b) != "not json {" {
			t.Errorf("body = %q", b)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json {"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if ok {
		t.Error("Body reported a parsed value for text/plain")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDecodeBody_WithoutJSON(t *testing.T) {
	var v struct{}
	err := DecodeBody(httptest.NewRequest(http.MethodGet, "/", nil), &v)
	if status, _ := httperr.Resolve(err); status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}
