package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetProxyFallback(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer origin.Close()

	var proxy1Hits, proxy2Hits int32
	proxy1 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxy1Hits, 1)
		http.Error(w, "also down", http.StatusServiceUnavailable)
	}))
	defer proxy1.Close()
	proxy2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxy2Hits, 1)
		target, _ := url.QueryUnescape(strings.TrimPrefix(r.URL.RawQuery, "u="))
		if !strings.HasPrefix(target, "http") {
			t.Errorf("proxy received unexpected target %q", target)
		}
		w.Write([]byte("payload"))
	}))
	defer proxy2.Close()

	c := NewClient(Options{
		Proxies:  []string{proxy1.URL + "/?u=", proxy2.URL + "/?u="},
		Attempts: 1,
	})
	body, err := c.Get(context.Background(), origin.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("body = %q", body)
	}
	if proxy1Hits != 1 || proxy2Hits != 1 {
		t.Errorf("proxy hits = %d, %d; want 1, 1", proxy1Hits, proxy2Hits)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(Options{Attempts: 3, BaseDelay: time.Millisecond})
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}

func TestGetClientErrorFallsThroughToProxy(t *testing.T) {
	var originHits, proxyHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		http.NotFound(w, r)
	}))
	defer origin.Close()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxyHits, 1)
		w.Write([]byte("payload"))
	}))
	defer proxy.Close()

	c := NewClient(Options{Proxies: []string{proxy.URL + "/?u="}, Attempts: 3, BaseDelay: time.Millisecond})
	body, err := c.Get(context.Background(), origin.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("body = %q", body)
	}
	if originHits != 1 || proxyHits != 1 {
		t.Errorf("hits = %d, %d; want 1, 1", originHits, proxyHits)
	}
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var originHits, proxyHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&originHits, 1)
		http.NotFound(w, r)
	}))
	defer origin.Close()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&proxyHits, 1)
		http.NotFound(w, r)
	}))
	defer proxy.Close()

	c := NewClient(Options{Proxies: []string{proxy.URL + "/?u="}, Attempts: 3, BaseDelay: time.Millisecond})
	_, err := c.Get(context.Background(), origin.URL)
	ne, ok := err.(*NetworkError)
	if !ok {
		t.Fatalf("err = %v, want *NetworkError", err)
	}
	if ne.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", ne.Status)
	}
	// The whole chain runs once; a 404 everywhere is final, not retried.
	if originHits != 1 || proxyHits != 1 {
		t.Errorf("hits = %d, %d; want 1, 1", originHits, proxyHits)
	}
}

func TestGetAcceptsNonOKSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("queued"))
	}))
	defer srv.Close()

	c := NewClient(Options{Attempts: 1})
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "queued" {
		t.Errorf("body = %q", body)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport failure", &NetworkError{URL: "x", Err: context.DeadlineExceeded}, true},
		{"server error", &NetworkError{URL: "x", Status: 503}, true},
		{"not found", &NetworkError{URL: "x", Status: 404}, false},
		{"plain error", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable = %v, want %v", got, tt.want)
			}
		})
	}
}
