package urlgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skysplit/internal/fetch"
	"skysplit/internal/urlgen"
)

func TestGenerateExpandsMatchingGroups(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/TNG50-1/files/skirt_images_hsc/", func(w http.ResponseWriter, r *http.Request) {
		index := []string{
			server.URL + "/api/group/skirt_images_hsc_realistic_v2_91",
			server.URL + "/api/group/skirt_images_hsc_realistic_v2_72",
			server.URL + "/api/group/skirt_images_hsc_idealized_v2_91",
		}
		json.NewEncoder(w).Encode(index)
	})
	mux.HandleFunc("/api/group/skirt_images_hsc_realistic_v2_91", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"files": []string{
				"https://example.org/cutout/1",
				"https://example.org/cutout/2",
			},
		})
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := fetch.NewClient(fetch.Options{MaxAttempts: 1}, nil)
	gen := urlgen.New(client, nil)

	urls, err := gen.Generate(context.Background(), urlgen.Options{
		BaseURL:    server.URL + "/api",
		Simulation: "TNG50-1",
		Snapshot:   91,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	want := []string{"https://example.org/cutout/1", "https://example.org/cutout/2"}
	if len(urls) != len(want) {
		t.Fatalf("got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestGenerateValidatesOptions(t *testing.T) {
	client := fetch.NewClient(fetch.Options{MaxAttempts: 1}, nil)
	gen := urlgen.New(client, nil)

	if _, err := gen.Generate(context.Background(), urlgen.Options{Simulation: "", Snapshot: 91}); err == nil {
		t.Error("expected error for missing simulation")
	}
	if _, err := gen.Generate(context.Background(), urlgen.Options{Simulation: "TNG50-1", Snapshot: 0}); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestGeneratePropagatesIndexError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := fetch.NewClient(fetch.Options{MaxAttempts: 1}, nil)
	gen := urlgen.New(client, nil)

	_, err := gen.Generate(context.Background(), urlgen.Options{
		BaseURL:    server.URL,
		Simulation: "TNG50-1",
		Snapshot:   91,
	})
	if err == nil {
		t.Fatal("expected error from 404 index")
	}
}

func TestWriteListOneURLPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	urls := []string{"https://example.org/a", "https://example.org/b"}

	if err := urlgen.WriteList(path, urls); err != nil {
		t.Fatalf("WriteList returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if string(content) != "https://example.org/a\nhttps://example.org/b\n" {
		t.Fatalf("unexpected content %q", content)
	}
}
