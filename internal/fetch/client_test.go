package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"skysplit/internal/fetch"
	"skysplit/internal/services"
)

func fastOptions() fetch.Options {
	return fetch.Options{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		Timeout:     5 * time.Second,
	}
}

func TestFetchWritesDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "parent.fits")
	client := fetch.NewClient(fastOptions(), nil)
	if err := client.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(content) != "payload" {
		t.Fatalf("unexpected content %q", content)
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err = %v", err)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("eventually"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.fits")
	client := fetch.NewClient(fastOptions(), nil)
	if err := client.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
}

func TestFetchExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.fits")
	client := fetch.NewClient(fastOptions(), nil)
	err := client.Fetch(context.Background(), server.URL, dest)
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.Retryable(err) {
		t.Fatalf("exhausted transient error should stay transient, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("expected no destination file, stat err = %v", err)
	}
}

func TestFetchClientErrorIsFatal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.fits")
	client := fetch.NewClient(fastOptions(), nil)
	err := client.Fetch(context.Background(), server.URL, dest)
	if err == nil {
		t.Fatal("expected error")
	}
	if services.Retryable(err) {
		t.Fatalf("404 should be fatal, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 request for a 4xx, got %d", got)
	}
}

func TestFetchSendsAPIKeyHeader(t *testing.T) {
	var gotKey atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("API-Key"))
		w.Write([]byte("x"))
	}))
	defer server.Close()

	opts := fastOptions()
	opts.APIKey = "secret"
	client := fetch.NewClient(opts, nil)
	dest := filepath.Join(t.TempDir(), "out.fits")
	if err := client.Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotKey.Load() != "secret" {
		t.Fatalf("expected API-Key header, got %v", gotKey.Load())
	}
}

func TestGetJSONDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 2, "files": ["a", "b"]}`))
	}))
	defer server.Close()

	var payload struct {
		Count int      `json:"count"`
		Files []string `json:"files"`
	}
	client := fetch.NewClient(fastOptions(), nil)
	if err := client.GetJSON(context.Background(), server.URL, &payload); err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if payload.Count != 2 || len(payload.Files) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.Backoff = time.Minute
	opts.MaxBackoff = time.Minute
	client := fetch.NewClient(opts, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dest := filepath.Join(t.TempDir(), "out.fits")
	start := time.Now()
	err := client.Fetch(ctx, server.URL, dest)
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("cancellation did not interrupt backoff wait")
	}
}
