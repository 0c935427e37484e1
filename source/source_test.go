package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadAll(t *testing.T) {
	data, err := ReadAll(strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.7" {
		t.Errorf("Expected %q, got %q", "%PDF-1.7", data)
	}

	if _, err := ReadAll(nil); err == nil {
		t.Error("Expected error for nil reader")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "%PDF-" {
		t.Errorf("Unexpected content %q", data)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)

	data, err := client.Download(context.Background(), server.URL+"/doc.pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.4 remote" {
		t.Errorf("Unexpected body %q", data)
	}

	if _, err := client.Download(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("Expected error for 404 response")
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	if c := NewClient(0); c.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout %v, got %v", DefaultTimeout, c.HTTPClient.Timeout)
	}
}
