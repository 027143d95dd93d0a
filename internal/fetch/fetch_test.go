package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Accept-Language") == "" {
				http.Error(w, "missing headers", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><body><h1>` + r.UserAgent() + `</h1></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCollector_FetchOK(t *testing.T) {
	srv := newTestServer(t)
	f, err := NewCollector(Options{UserAgent: "br162-test", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(string(body), "br162-test") {
		t.Fatalf("body = %s", body)
	}
	// revisiting the same address is allowed
	if _, err := f.Fetch(context.Background(), srv.URL+"/ok"); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
}

func TestCollector_FetchNotFound(t *testing.T) {
	srv := newTestServer(t)
	f, err := NewCollector(Options{UserAgent: "br162-test", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("err = %v, want ErrStatus", err)
	}
}

func TestCollector_FetchCancelled(t *testing.T) {
	f, err := NewCollector(Options{UserAgent: "br162-test"})
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, "http://127.0.0.1:1/never"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
