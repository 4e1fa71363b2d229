package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/session"
)

type createSessionRequest struct {
	Strategies []string `json:"strategies"`
}

type sessionView struct {
	ID         string         `json:"id"`
	State      session.State  `json:"state"`
	Strategies []string       `json:"strategies"`
	CreatedAt  time.Time      `json:"created_at"`
	LastReport session.Report `json:"last_report"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:         s.ID(),
		State:      s.State(),
		Strategies: s.ActiveStrategies(),
		CreatedAt:  s.CreatedAt(),
		LastReport: s.LastReport(),
	}
}

type historyResponse struct {
	Passes      []*domain.PassRecord `json:"passes"`
	Transitions []session.Transition `json:"transitions"`
}

type permissionResultRequest struct {
	Grants []bool `json:"grants"`
}

type flowCompleteRequest struct {
	Result string `json:"result"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	kinds := make([]domain.FailureKind, 0, len(req.Strategies))
	for _, name := range req.Strategies {
		kind, err := domain.ParseFailureKind(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		kinds = append(kinds, kind)
	}

	sess, err := s.deps.Sessions.Create(kinds)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.deps.Sessions.List()
	out := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, viewOf(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Close(mux.Vars(r)["id"]); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnableStrategy(w http.ResponseWriter, r *http.Request) {
	s.toggleStrategy(w, r, (*session.Session).Enable)
}

func (s *Server) handleDisableStrategy(w http.ResponseWriter, r *http.Request) {
	s.toggleStrategy(w, r, (*session.Session).Disable)
}

func (s *Server) toggleStrategy(
	w http.ResponseWriter,
	r *http.Request,
	toggle func(*session.Session, domain.FailureKind) (bool, error),
) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	kind, err := domain.ParseFailureKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	changed, err := toggle(sess, kind)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"changed":    changed,
		"strategies": sess.ActiveStrategies(),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	report, err := sess.CheckAvailability(r.Context())
	s.writeReport(w, report, err)
}

// handleResolve blocks until the pass finishes, which may include waiting for
// the user to answer interactions through the other endpoints.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var (
		report session.Report
		err    error
	)
	if r.URL.Query().Get("retry") == "true" && s.deps.Retrier != nil {
		report, err = s.deps.Retrier.Run(r.Context(), sess)
	} else {
		report, err = sess.ResolveAvailability(r.Context())
	}
	s.writeReport(w, report, err)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	resp := historyResponse{
		Passes:      []*domain.PassRecord{},
		Transitions: sess.History(),
	}
	if s.deps.Passes != nil {
		passes, err := s.deps.Passes.GetRecent(r.Context(), sess.ID(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Passes = passes
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Board.List())
}

func (s *Server) handlePermissionResult(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request code: %w", err))
		return
	}

	var req permissionResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	if !s.deps.Permissions.OnResult(r.Context(), code, req.Grants) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no pending permission request %d", code))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFlowComplete(w http.ResponseWriter, r *http.Request) {
	var req flowCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	result, err := flow.ParseResult(req.Result)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.deps.Flows.Complete(mux.Vars(r)["id"], result); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.deps.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusOf(err), err)
		return nil, false
	}
	return sess, true
}

// writeReport sends the pass report. Faults and probe errors still carry a
// report, so only request-level errors change the status code.
func (s *Server) writeReport(w http.ResponseWriter, report session.Report, err error) {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrPassInProgress),
		errors.Is(err, session.ErrSessionClosed):
		writeError(w, statusOf(err), err)
		return
	case resolution.IsCancelled(err):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	default:
		if report.Error == "" {
			report.Error = err.Error()
		}
		s.log.Warn("Availability pass failed", "session", report.SessionID, "error", err)
	}
	writeJSON(w, http.StatusOK, report)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, flow.ErrUnknownFlow):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrPassInProgress):
		return http.StatusConflict
	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
