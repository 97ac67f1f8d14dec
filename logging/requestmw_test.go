package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	r := chi.NewRouter()
	r.Use(RequestLogger(zap.New(core)))
	r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path  string
		level zapcore.Level
		route string
	}{
		{"/posts/42", zapcore.InfoLevel, "/posts/{id}"},
		{"/bad", zapcore.WarnLevel, "/bad"},
		{"/boom", zapcore.ErrorLevel, "/boom"},
	}
	for _, tt := range tests {
		logs.TakeAll()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("%s: got %d entries, want 1", tt.path, len(entries))
		}
		e := entries[0]
		if e.Level != tt.level {
			t.Errorf("%s: level = %v, want %v", tt.path, e.Level, tt.level)
		}
		if got := e.ContextMap()["route"]; got != tt.route {
			t.Errorf("%s: route = %v, want %q", tt.path, got, tt.route)
		}
	}
}
