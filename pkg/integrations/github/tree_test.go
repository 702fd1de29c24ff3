package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/sandijean90/SecurityAgent/pkg/cache"
	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("", cache.NewNullCache(), 0)
	c.baseURL = srv.URL
	return c
}

func writeTree(w http.ResponseWriter, tr treeResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tr)
}

func TestFindLockfiles(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pallets/flask/git/trees/HEAD" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		writeTree(w, treeResponse{SHA: "root", Tree: []treeEntry{
			{Path: "README.md", Type: "blob"},
			{Path: "uv.lock", Type: "blob"},
			{Path: "services", Type: "tree"},
			{Path: "services/api/uv.lock", Type: "blob"},
			{Path: "services/uv.lock.bak", Type: "blob"},
		}})
	}))

	paths, truncated, err := c.FindLockfiles(context.Background(), RepoRef{"pallets", "flask", "HEAD"}, "uv.lock")
	if err != nil {
		t.Fatalf("FindLockfiles: %v", err)
	}
	if truncated {
		t.Error("truncated = true, want false")
	}
	want := []string{"uv.lock", "services/api/uv.lock"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestFindLockfilesMissingRepo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, _, err := c.FindLockfiles(context.Background(), RepoRef{"ghost", "nope", "HEAD"}, "uv.lock")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindLockfilesTruncatedFallback(t *testing.T) {
	var (
		mu      sync.Mutex
		fetched []string
	)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/o/r/git/trees/HEAD":
			// Truncated listing with no matches triggers the fallback walk.
			writeTree(w, treeResponse{SHA: "rootsha", Truncated: true, Tree: []treeEntry{
				{Path: "README.md", Type: "blob"},
			}})
		case "/repos/o/r/git/trees/rootsha":
			mu.Lock()
			fetched = append(fetched, "rootsha")
			mu.Unlock()
			writeTree(w, treeResponse{SHA: "rootsha", Tree: []treeEntry{
				{Path: "uv.lock", Type: "blob", SHA: "b1"},
				{Path: "vendored", Type: "tree", SHA: "shared"},
				{Path: "services", Type: "tree", SHA: "shared"},
				{Path: "broken", Type: "tree", SHA: "missing"},
			}})
		case "/repos/o/r/git/trees/shared":
			mu.Lock()
			fetched = append(fetched, "shared")
			mu.Unlock()
			writeTree(w, treeResponse{SHA: "shared", Tree: []treeEntry{
				{Path: "uv.lock", Type: "blob", SHA: "b2"},
			}})
		default:
			http.NotFound(w, r)
		}
	}))

	paths, truncated, err := c.FindLockfiles(context.Background(), RepoRef{"o", "r", "HEAD"}, "uv.lock")
	if err != nil {
		t.Fatalf("FindLockfiles: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true")
	}

	// The shared subtree is reachable twice but fetched once; the
	// unreachable one is skipped without failing the walk.
	mu.Lock()
	defer mu.Unlock()
	shared := 0
	for _, sha := range fetched {
		if sha == "shared" {
			shared++
		}
	}
	if shared != 1 {
		t.Errorf("shared subtree fetched %d times, want 1", shared)
	}

	sort.Strings(paths)
	// Only one copy of the shared subtree's lockfile is reported, under
	// whichever parent the walk reached first; both candidates are rooted
	// at the repository root.
	if len(paths) != 2 || paths[0] != "uv.lock" {
		t.Fatalf("paths = %v, want root uv.lock plus one subtree match", paths)
	}
	if paths[1] != "services/uv.lock" && paths[1] != "vendored/uv.lock" {
		t.Errorf("subtree match = %q, want services/uv.lock or vendored/uv.lock", paths[1])
	}
}

func TestFindLockfilesTruncatedWithMatchesSkipsFallback(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeTree(w, treeResponse{SHA: "root", Truncated: true, Tree: []treeEntry{
			{Path: "uv.lock", Type: "blob"},
		}})
	}))

	paths, truncated, err := c.FindLockfiles(context.Background(), RepoRef{"o", "r", "HEAD"}, "uv.lock")
	if err != nil {
		t.Fatalf("FindLockfiles: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true")
	}
	if len(paths) != 1 || paths[0] != "uv.lock" {
		t.Errorf("paths = %v, want [uv.lock]", paths)
	}
	if calls != 1 {
		t.Errorf("server saw %d requests, want 1 (no fallback when the partial page matched)", calls)
	}
}
