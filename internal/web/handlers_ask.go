package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/advisor/internal/session"
)

type askRequest struct {
	Question string `json:"question"`
}

// handleAsk answers an FAQ question from the "q" form field or a JSON body.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var question string
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, errEmptyQuestion, http.StatusBadRequest)
			return
		}
		question = req.Question
	} else {
		question = r.FormValue("q")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		s.respondError(w, r, errEmptyQuestion, http.StatusBadRequest)
		return
	}
	if s.advisor.FAQ().Len() == 0 {
		s.respondError(w, r, errNoFAQ, http.StatusServiceUnavailable)
		return
	}

	result := s.advisor.Ask(r.Context(), question)
	in := s.session().RecordQuery(question, result)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, in)
		return
	}
	http.Redirect(w, r, "/#faq", http.StatusSeeOther)
}

// handleNotes replaces the advisor notes.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	s.session().SetNotes(r.FormValue("notes"))
	http.Redirect(w, r, "/#notes", http.StatusSeeOther)
}

// handleSession returns the session history.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session().Snapshot())
}

// handleResetSession discards the history and starts a new session.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.resetSession()
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID()})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// snapshot is a helper for export handlers.
func (s *Server) snapshot() session.Snapshot {
	return s.session().Snapshot()
}
