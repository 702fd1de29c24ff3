package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/sandijean90/SecurityAgent/pkg/errors"
	"github.com/sandijean90/SecurityAgent/pkg/integrations"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex"
	"github.com/sandijean90/SecurityAgent/pkg/lockfile"
	"github.com/sandijean90/SecurityAgent/pkg/scan"
	"github.com/sandijean90/SecurityAgent/pkg/session"
)

type scanRequest struct {
	RepoURL   string `json:"repo_url"`
	SessionID string `json:"session_id,omitempty"`
}

type scanResponse struct {
	SessionID string       `json:"session_id"`
	Result    *scan.Result `json:"result"`
}

type reportRequest struct {
	SessionID string            `json:"session_id,omitempty"`
	Packages  lockfile.Packages `json:"packages,omitempty"`
}

type reportResponse struct {
	SessionID string          `json:"session_id,omitempty"`
	Report    *ossindex.Report `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScan runs the discovery stage and records the result under the
// request's session so a later report call can reuse it.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	if req.RepoURL == "" {
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "repo_url is required"))
		return
	}

	result, err := s.scanner.Scan(r.Context(), req.RepoURL)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	sess := s.loadOrCreateSession(r, req.SessionID)
	sess.LastScan = result
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.logger.Warn("failed to persist session", "session", sess.ID, "err", err)
	}

	writeJSON(w, http.StatusOK, scanResponse{SessionID: sess.ID, Result: result})
}

// handleReport runs the vulnerability lookup stage, either on packages
// supplied inline or on the session's last scan.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	pkgs := req.Packages
	if len(pkgs) == 0 {
		if req.SessionID == "" {
			s.writeError(w, http.StatusBadRequest, apperrors.New(apperrors.ErrCodeInvalidInput, "either packages or session_id is required"))
			return
		}
		sess, err := s.sessions.Get(r.Context(), req.SessionID)
		if err != nil || sess.LastScan == nil {
			s.writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodeSessionNotFound, "no scan recorded for session %s", req.SessionID))
			return
		}
		pkgs = sess.LastScan.Packages
	}

	report := s.scanner.Report(r.Context(), pkgs)
	writeJSON(w, http.StatusOK, reportResponse{SessionID: req.SessionID, Report: report})
}

// loadOrCreateSession returns the referenced session when it is still
// live, or a fresh one otherwise.
func (s *Server) loadOrCreateSession(r *http.Request, sessionID string) *session.Session {
	if sessionID != "" {
		if sess, err := s.sessions.Get(r.Context(), sessionID); err == nil {
			return sess
		}
	}
	return session.New(s.sessionTTL)
}

// statusFor maps pipeline errors to HTTP statuses: validation errors are
// the caller's fault, missing repositories are 404, the rest is upstream.
func statusFor(err error) int {
	switch {
	case apperrors.GetCode(err) == apperrors.ErrCodeInvalidRepoURL,
		apperrors.GetCode(err) == apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.Is(err, integrations.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
