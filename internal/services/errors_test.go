package services_test

import (
	"errors"
	"strings"
	"testing"

	"skysplit/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSplit, "split", "open", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSplit) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"split", "open", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := services.Wrap(nil, "fetch", "get", "request failed", errors.New("io"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"parse", services.Wrap(services.ErrParse, "identify", "parse", "bad url", nil), false},
		{"fatal fetch", services.Wrap(services.ErrFatal, "fetch", "get", "404", nil), false},
		{"split", services.Wrap(services.ErrSplit, "split", "scan", "no extensions", nil), false},
		{"transient", services.Wrap(services.ErrTransient, "fetch", "get", "503", nil), true},
		{"catalog", services.Wrap(services.ErrCatalog, "catalog", "write", "rename failed", nil), true},
		{"untagged", errors.New("connection reset"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Retryable(tc.err); got != tc.want {
				t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
