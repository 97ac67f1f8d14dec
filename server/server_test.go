package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/dalemusser/inkwell/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testHTTPConfig() config.HTTPConfig {
	return config.HTTPConfig{ReadHeaderTimeout: time.Second, ShutdownTimeout: 2 * time.Second}
}

func TestServe_LogsPortAndShutsDown(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, testHTTPConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}), logger)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	want := "Server is running on port " + strconv.Itoa(port) + "!"
	if logs.FilterMessage(want).Len() != 1 {
		t.Errorf("missing log line %q; got %v", want, logs.All())
	}
}

func TestListenAndServe_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := testHTTPConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = ListenAndServe(context.Background(), cfg, http.NotFoundHandler(), zap.NewNop())
	if err == nil {
		t.Fatal("expected bind error for port in use")
	}
}
