package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/advisor/internal/application"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/sample"
	"github.com/JonMunkholm/advisor/internal/session"
	"github.com/JonMunkholm/advisor/internal/tabular"
)

// ValidateResponse is the API result of a validation run.
type ValidateResponse struct {
	SessionID string      `json:"sessionId"`
	Run       session.Run `json:"run"`
	Note      string      `json:"note"`
}

// handleValidate validates an uploaded plan. The multipart form carries a
// required "plan" file and optional "requirements" and "catalog" files.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := s.limits.acquire(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusTooManyRequests)
		return
	}
	defer s.limits.release()

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, fmt.Errorf("file too large: limit is %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %w", errNoFile, err), http.StatusBadRequest)
		return
	}

	plan, name, err := readUpload(r, "plan")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if plan == nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}

	in := application.Inputs{Source: name}
	if in.Requirements, _, err = readUpload(r, "requirements"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if in.Catalog, _, err = readUpload(r, "catalog"); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.completeValidation(w, r, *plan, in)
}

// handleValidateSample validates the bundled sample plan.
func (s *Server) handleValidateSample(w http.ResponseWriter, r *http.Request) {
	if err := s.limits.acquire(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusTooManyRequests)
		return
	}
	defer s.limits.release()

	s.completeValidation(w, r, sample.Plan(), application.Inputs{Source: sample.FileName(core.TablePlan)})
}

func (s *Server) completeValidation(w http.ResponseWriter, r *http.Request, plan core.Table, in application.Inputs) {
	sess := s.session()
	rep := s.advisor.Validate(r.Context(), plan, in)
	run := sess.RecordValidation(in.Source, rep)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, ValidateResponse{
			SessionID: sess.ID(),
			Run:       run,
			Note:      report.ValidationNote(rep, s.advisor.Meta(in.Source)),
		})
		return
	}
	http.Redirect(w, r, "/#report", http.StatusSeeOther)
}

// readUpload parses one uploaded file. A missing field yields a nil table.
func readUpload(r *http.Request, field string) (*core.Table, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s upload: %w", field, err)
	}

	t, err := tabular.ReadBytes(header.Filename, data)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: %w", field, header.Filename, err)
	}
	return &t, header.Filename, nil
}
