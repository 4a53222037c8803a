package main

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestRunServerStopsOnContextCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, srv)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServer: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}

func TestRunServerReturnsListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:0", Handler: http.NewServeMux()}
	if err := runServer(context.Background(), srv); err == nil {
		t.Fatal("expected listen error for invalid address")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"warn":    "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
		" Debug ": "DEBUG",
	}
	for raw, want := range cases {
		if got := parseLogLevel(raw).Level().String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}
