package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/sample"
	"github.com/JonMunkholm/advisor/internal/tabular"
	"github.com/go-chi/chi/v5"
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.session().Snapshot()
	meta := s.advisor.Meta("")

	data := DashboardData{
		Program:      meta.Program,
		CatalogYear:  meta.CatalogYear,
		SessionID:    snap.ID,
		FAQCount:     s.advisor.FAQ().Len(),
		Requirements: s.advisor.Requirements(),
		Interactions: snap.Interactions,
		Notes:        snap.Notes,
		Policies:     s.advisor.Policies(),
		Contacts:     s.advisor.Contacts(),
		Tables:       core.All(),
	}
	if run, ok := snap.LastRun(); ok {
		data.LastRun = &run
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Dashboard(data).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

// TableInfo describes a registered table kind in API responses.
type TableInfo struct {
	Key         string       `json:"key"`
	Label       string       `json:"label"`
	Group       string       `json:"group"`
	Description string       `json:"description"`
	Required    []core.Field `json:"required,omitempty"`
	Columns     []string     `json:"columns"`
	PassThrough bool         `json:"passThrough"`
	HasSample   bool         `json:"hasSample"`
}

// handleListTables returns all registered table kinds.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	out := make([]TableInfo, len(defs))
	for i, def := range defs {
		_, err := sample.Bytes(def.Key)
		out[i] = TableInfo{
			Key:         def.Key,
			Label:       def.Label,
			Group:       def.Group,
			Description: def.Description,
			Required:    def.Required,
			Columns:     def.Columns,
			PassThrough: def.PassThrough,
			HasSample:   err == nil,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDownloadTemplate returns an empty CSV or XLSX template for a table.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	def, err := core.Lookup(tableKey)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if r.URL.Query().Get("format") == string(tabular.FormatXLSX) {
		if err := tabular.WriteXLSX(&buf, def.Label, def.Columns, nil); err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		sendFile(w, xlsxContentType, tableKey+"_template.xlsx", buf.Bytes())
		return
	}

	if err := tabular.WriteCSV(&buf, def.Columns, nil); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	sendFile(w, csvContentType, tableKey+"_template.csv", buf.Bytes())
}

// handleDownloadSample returns the bundled sample for a table.
func (s *Server) handleDownloadSample(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	data, err := sample.Bytes(tableKey)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	sendFile(w, csvContentType, sample.FileName(tableKey), data)
}

const (
	csvContentType  = "text/csv; charset=utf-8"
	textContentType = "text/plain; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// sendFile writes data as a download.
func sendFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}
