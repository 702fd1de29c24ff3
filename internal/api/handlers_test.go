package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandijean90/SecurityAgent/pkg/cache"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/github"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex"
	"github.com/sandijean90/SecurityAgent/pkg/scan"
	"github.com/sandijean90/SecurityAgent/pkg/session"
)

const testLock = `
[[package]]
name = "flask"
version = "2.3.0"
`

// newTestServer wires a Server against fake GitHub and OSS Index backends.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	ghSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/repos/o/r/git/trees/HEAD":
			_, _ = w.Write([]byte(`{"sha":"root","tree":[{"path":"uv.lock","type":"blob"}]}`))
		case "/repos/o/r/contents/uv.lock":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"content":  base64.StdEncoding.EncodeToString([]byte(testLock)),
				"encoding": "base64",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ghSrv.Close)

	ossSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Coordinates []string `json:"coordinates"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		reports := make([]ossindex.ComponentReport, len(req.Coordinates))
		for i, c := range req.Coordinates {
			reports[i] = ossindex.ComponentReport{
				Coordinates:     c,
				Vulnerabilities: []ossindex.Vulnerability{{ID: "CVE-2023-0001"}},
			}
		}
		_ = json.NewEncoder(w).Encode(reports)
	}))
	t.Cleanup(ossSrv.Close)

	gh := github.NewClient("", cache.NewNullCache(), 0).WithBaseURL(ghSrv.URL)
	vulns := ossindex.NewClient("", "").WithBaseURL(ossSrv.URL)
	srv := NewServer(scan.New(gh, vulns, nil), session.NewMemoryStore(), nil)
	return srv, srv.Router()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	_, handler := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestScanEndpoint(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/scan", scanRequest{RepoURL: "https://github.com/o/r"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("response missing session_id")
	}
	if resp.Result == nil || len(resp.Result.Packages) != 1 {
		t.Fatalf("result = %+v, want one package", resp.Result)
	}
}

func TestScanEndpointValidation(t *testing.T) {
	_, handler := newTestServer(t)

	tests := []struct {
		name string
		body scanRequest
		want int
	}{
		{"missing repo_url", scanRequest{}, http.StatusBadRequest},
		{"non-github locator", scanRequest{RepoURL: "https://example.com/o/r"}, http.StatusBadRequest},
		{"missing repository", scanRequest{RepoURL: "https://github.com/ghost/nope"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/v1/scan", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("error body = %s, want structured error", rec.Body)
			}
		})
	}
}

func TestReportEndpointFromSession(t *testing.T) {
	_, handler := newTestServer(t)

	scanRec := doJSON(t, handler, http.MethodPost, "/api/v1/scan", scanRequest{RepoURL: "https://github.com/o/r"})
	var scanResp scanResponse
	if err := json.Unmarshal(scanRec.Body.Bytes(), &scanResp); err != nil {
		t.Fatalf("decode scan response: %v", err)
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/report", reportRequest{SessionID: scanResp.SessionID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp reportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode report response: %v", err)
	}
	if resp.Report == nil || len(resp.Report.Results) != 1 {
		t.Fatalf("report = %+v, want one result", resp.Report)
	}
	if got := resp.Report.Results["pkg:pypi/flask@2.3.0"]; len(got.Vulnerabilities) != 1 {
		t.Errorf("vulnerabilities = %v, want one", got.Vulnerabilities)
	}
}

func TestReportEndpointInlinePackages(t *testing.T) {
	_, handler := newTestServer(t)

	body := []byte(`{"packages":[{"kind":"released","name":"flask","version":"2.3.0","ecosystem":"PyPI","paths":["uv.lock"]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp reportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode report response: %v", err)
	}
	if resp.Report == nil || len(resp.Report.Results) != 1 {
		t.Errorf("report = %+v, want one result", resp.Report)
	}
}

func TestReportEndpointRequiresInput(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/report", reportRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/report", reportRequest{SessionID: "unknown"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown session", rec.Code)
	}
}

func TestScanEndpointReusesSession(t *testing.T) {
	srv, handler := newTestServer(t)

	sess := session.New(time.Hour)
	if err := srv.sessions.Set(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/scan", scanRequest{
		RepoURL: "https://github.com/o/r", SessionID: sess.ID,
	})
	var resp scanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID != sess.ID {
		t.Errorf("session_id = %q, want reused %q", resp.SessionID, sess.ID)
	}

	stored, err := srv.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.LastScan == nil {
		t.Error("scan result not recorded on the session")
	}
}
