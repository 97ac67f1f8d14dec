package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestOpen_InvalidURI(t *testing.T) {
	h, err := Open("not-a-mongo-uri", "blog", DefaultPoolConfig())
	if err == nil {
		t.Fatal("expected error for invalid URI")
	}
	if h == nil {
		t.Fatal("handle must be non-nil even on error")
	}

	if _, err := h.Collection("posts"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Collection err = %v, want ErrUnavailable", err)
	}
	if err := h.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping err = %v, want ErrUnavailable", err)
	}
	if err := h.Disconnect(context.Background()); err != nil {
		t.Errorf("Disconnect on unavailable handle = %v, want nil", err)
	}
}

func TestConnectAsync_UnreachableDoesNotBlock(t *testing.T) {
	pool := DefaultPoolConfig()
	pool.ServerSelectionTimeout = 200 * time.Millisecond

	// Port 1 is reserved; nothing listens there.
	h, err := Open("mongodb://127.0.0.1:1/blog?connectTimeoutMS=200", "blog", pool)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = h.Disconnect(context.Background()) })

	start := time.Now()
	done := h.ConnectAsync(context.Background(), 500*time.Millisecond, zap.NewNop())
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("ConnectAsync blocked for %v", elapsed)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected ping failure against unreachable server")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ConnectAsync never reported")
	}

	// The handle stays usable for later attempts.
	if _, err := h.Collection("posts"); err != nil {
		t.Errorf("Collection err = %v, want nil", err)
	}
	if h.Name() != "blog" {
		t.Errorf("Name = %q, want blog", h.Name())
	}
}

func TestNilHandle(t *testing.T) {
	var h *Handle
	if _, err := h.Database(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("nil handle Database err = %v", err)
	}
}
