package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON_ClampsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 42, map[string]string{"a": "b"})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestIsJSON(t *testing.T) {
	tests := map[string]bool{
		"application/json":                true,
		"Application/JSON; charset=utf-8": true,
		" application/json ":              true,
		"application/problem+json":        false,
		"text/plain":                      false,
		"":                                false,
	}
	for ct, want := range tests {
		if got := IsJSON(ct); got != want {
			t.Errorf("IsJSON(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestDescribeJSONError(t *testing.T) {
	var v any
	err := json.NewDecoder(strings.NewReader(`{"a":}`)).Decode(&v)
	if got := DescribeJSONError(err).Error(); !strings.HasPrefix(got, "malformed JSON at position") {
		t.Errorf("syntax error described as %q", got)
	}

	if got := DescribeJSONError(&http.MaxBytesError{Limit: 1}).Error(); got != "request entity too large" {
		t.Errorf("max bytes described as %q", got)
	}

	if got := DescribeJSONError(errors.New("other")).Error(); got != "invalid JSON in request body" {
		t.Errorf("generic described as %q", got)
	}

	if DescribeJSONError(nil) != nil {
		t.Error("nil error should describe as nil")
	}
}
