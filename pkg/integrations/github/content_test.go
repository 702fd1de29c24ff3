package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

func TestFetchFile(t *testing.T) {
	// "hello lockfile" base64-encoded with the newline wrapping the
	// contents API produces.
	const wrapped = "aGVsbG8g\nbG9ja2ZpbGU=\n"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/contents/uv.lock" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("ref query = %q, want %q", got, "main")
		}
		_ = json.NewEncoder(w).Encode(contentResponse{
			Name: "uv.lock", Path: "uv.lock", Content: wrapped, Encoding: "base64",
		})
	}))

	raw, err := c.FetchFile(context.Background(), RepoRef{"o", "r", "main"}, "uv.lock")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if string(raw) != "hello lockfile" {
		t.Errorf("content = %q, want %q", raw, "hello lockfile")
	}
}

func TestFetchFileDefaultRefOmitsQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none for the default ref", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(contentResponse{Content: "aGk=", Encoding: "base64"})
	}))

	if _, err := c.FetchFile(context.Background(), RepoRef{"o", "r", DefaultRef}, "uv.lock"); err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
}

func TestFetchFileRejectsUnexpectedEncoding(t *testing.T) {
	tests := []struct {
		name string
		resp contentResponse
	}{
		{"non-base64 encoding", contentResponse{Content: "hi", Encoding: "utf-8"}},
		{"empty content", contentResponse{Content: "", Encoding: "base64"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(tt.resp)
			}))
			if _, err := c.FetchFile(context.Background(), RepoRef{"o", "r", "HEAD"}, "uv.lock"); err == nil {
				t.Error("FetchFile succeeded, want error")
			}
		})
	}
}

func TestFetchFileMissing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(http.NotFound))
	_, err := c.FetchFile(context.Background(), RepoRef{"o", "r", "HEAD"}, "gone/uv.lock")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
