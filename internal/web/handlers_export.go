package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/tabular"
)

// handleExportNote returns the advisor note for the latest validation.
func (s *Server) handleExportNote(w http.ResponseWriter, r *http.Request) {
	run, ok := s.snapshot().LastRun()
	if !ok {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	note := report.ValidationNote(&run.Report, s.advisor.Meta(run.Source))
	sendFile(w, textContentType, "advisor_note.txt", []byte(note))
}

// handleExportIssuesCSV returns the latest issues as CSV.
func (s *Server) handleExportIssuesCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := s.snapshot().LastRun()
	if !ok {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteIssuesCSV(&buf, &run.Report); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	sendFile(w, csvContentType, "plan_issues.csv", buf.Bytes())
}

// handleExportIssuesXLSX returns the latest issues as a workbook.
func (s *Server) handleExportIssuesXLSX(w http.ResponseWriter, r *http.Request) {
	run, ok := s.snapshot().LastRun()
	if !ok {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := tabular.WriteXLSX(&buf, "Issues", report.IssueColumns, report.IssueRows(&run.Report)); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	sendFile(w, xlsxContentType, "plan_issues.xlsx", buf.Bytes())
}

// handleExportFAQLog returns the questions asked this session.
func (s *Server) handleExportFAQLog(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if len(snap.Interactions) == 0 {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	text := report.FAQLog(snap.Interactions, s.advisor.Meta(""))
	sendFile(w, textContentType, "faq_log.txt", []byte(text))
}

// handleExportNotes returns the advisor notes alone.
func (s *Server) handleExportNotes(w http.ResponseWriter, r *http.Request) {
	notes := strings.TrimSpace(s.snapshot().Notes)
	if notes == "" {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	sendFile(w, textContentType, "advisor_notes.txt", []byte(notes+"\n"))
}

// handleExportReport returns the combined report.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	text := report.FullReport(s.snapshot(), s.advisor.Meta(""))
	if text == "" {
		s.respondError(w, r, errNothingToExport, http.StatusNotFound)
		return
	}
	sendFile(w, textContentType, "advisor_report.txt", []byte(text))
}
