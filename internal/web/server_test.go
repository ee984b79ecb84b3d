package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/advisor/internal/application"
	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/session"
	"github.com/JonMunkholm/advisor/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioPlan = "Credits,Category\n3,Core\n2,Core\nabc,Elective\n"

func newTestServer(t *testing.T, maxUpload int64) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8501, RequestTimeout: 5 * time.Second},
		Data: config.DataConfig{
			Dir:     t.TempDir(),
			FAQFile: "faq.csv",
		},
		Validation: config.ValidationConfig{Program: "DPT", CatalogYear: "2025-2026", TermOrder: "seasonal"},
		Upload:     config.UploadConfig{MaxFileSize: maxUpload},
	}
	svc, err := application.New(cfg)
	require.NoError(t, err)
	return NewServer(svc, cfg)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func multipartRequest(t *testing.T, path string, files map[string][2]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Advisor Assistant</title>")
	assert.Contains(t, body, "Program: DPT | Catalog: 2025-2026 | FAQ entries: 5")
	assert.Contains(t, body, "No plan validated yet.")
	assert.Contains(t, body, "Default requirements: Core 60, Lab 2, IP 2, Elective 6")
	assert.Contains(t, body, "No policies data configured.")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestValidateAPI(t *testing.T) {
	s := newTestServer(t, 1<<20)

	req := multipartRequest(t, "/api/validate", map[string][2]string{
		"plan": {"plan.csv", scenarioPlan},
	})
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, s.session().ID(), resp.SessionID)
	assert.Equal(t, "plan.csv", resp.Run.Source)
	require.Len(t, resp.Run.Report.Errors, 1)
	assert.Equal(t, 3, resp.Run.Report.Errors[0].Row)
	assert.Equal(t, []core.CategoryTotal{{Category: "Core", Credits: 5}}, resp.Run.Report.CategoryTotals)
	assert.Contains(t, resp.Note, "Source: plan.csv")
	assert.Contains(t, resp.Note, `[VAL003] Error - row 3: credits "abc" are not numeric`)

	_, ok := s.session().Snapshot().LastRun()
	assert.True(t, ok)
}

func TestValidateAPI_UploadedRequirements(t *testing.T) {
	s := newTestServer(t, 1<<20)

	req := multipartRequest(t, "/api/validate", map[string][2]string{
		"plan":         {"plan.csv", scenarioPlan},
		"requirements": {"reqs.csv", "Category,RequiredCredits\nCore,8\n"},
	})
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []core.CategoryGap{{Category: "Core", Required: 8, Actual: 5, Gap: 3}}, resp.Run.Report.CategoryGaps)
}

func TestDashboard_ReportPanel(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, multipartRequest(t, "/validate", map[string][2]string{
		"plan":         {"plan.csv", "Credits,Category\n3,core\n2,Core\nabc,Elective\n"},
		"requirements": {"reqs.csv", "Category,RequiredCredits\nCore,8\nLab,2\n"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "<h3>Summary by kind</h3>")
	assert.Contains(t, body, "<tr><td>VAL003</td><td>bad_credits</td><td>1</td></tr>")
	assert.Contains(t, body, "<tr><td>core</td><td>5</td><td>8</td><td>3</td></tr>")
	assert.Contains(t, body, "<tr><td>Lab</td><td>0</td><td>2</td><td>2</td></tr>")
}

func TestValidateAPI_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string][2]string
		maxSize  int64
		wantCode string
	}{
		{
			name:     "no plan",
			files:    map[string][2]string{"catalog": {"catalog.csv", "CourseID\nPT101\n"}},
			maxSize:  1 << 20,
			wantCode: "FILE004",
		},
		{
			name:     "unsupported format",
			files:    map[string][2]string{"plan": {"plan.pdf", "%PDF-1.4"}},
			maxSize:  1 << 20,
			wantCode: "FILE006",
		},
		{
			name:     "empty file",
			files:    map[string][2]string{"plan": {"plan.csv", "\n\n"}},
			maxSize:  1 << 20,
			wantCode: "FILE005",
		},
		{
			name:     "too large",
			files:    map[string][2]string{"plan": {"plan.csv", strings.Repeat("3,Core\n", 200)}},
			maxSize:  256,
			wantCode: "FILE001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.maxSize)

			rec := do(t, s, multipartRequest(t, "/api/validate", tt.files))

			assert.GreaterOrEqual(t, rec.Code, 400)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			_, ok := s.session().Snapshot().LastRun()
			assert.False(t, ok)
		})
	}
}

func TestValidate_Busy(t *testing.T) {
	s := newTestServer(t, 1<<20)
	require.NoError(t, s.limits.acquire(context.Background()))
	defer s.limits.release()

	rec := do(t, s, multipartRequest(t, "/api/validate", map[string][2]string{
		"plan": {"plan.csv", scenarioPlan},
	}))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "REQ003", decodeError(t, rec).Code)
}

func TestValidateSampleAndExports(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/validate/sample", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#report", rec.Header().Get("Location"))

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "sample_plan.csv: 10 rows (10 valid), 28 credits, 5 completed, 5 planned.")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/note.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "advisor_note.txt")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Advisor Assistant validation note ("))
	assert.Contains(t, rec.Body.String(), "Source: sample_plan.csv")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/issues.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), strings.Join(report.IssueColumns, ",")+"\n"))
	assert.Contains(t, rec.Body.String(), "corequisite,7,IPE 4200")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/issues.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	wb, err := tabular.ReadXLSX(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, report.IssueColumns, wb.Header)
	assert.NotEmpty(t, wb.Rows)
}

func TestExports_NothingYet(t *testing.T) {
	s := newTestServer(t, 1<<20)

	for _, path := range []string{"/export/note.txt", "/export/issues.csv", "/export/issues.xlsx",
		"/export/faq-log.txt", "/export/notes.txt", "/export/report.txt"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "There is nothing to export yet")
			assert.Contains(t, rec.Body.String(), "EXP001")
		})
	}
}

func TestAsk(t *testing.T) {
	s := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"Who clears my advising hold?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var in session.Interaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &in))
	assert.True(t, in.Result.Found)
	assert.Equal(t, core.MatchExact, in.Result.Method)
	assert.Equal(t, "Who clears my advising hold?", in.Query)

	rec = do(t, s, formRequest("/ask", url.Values{"q": {"xylophone quartz zebra"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#faq", rec.Header().Get("Location"))

	snap := s.session().Snapshot()
	require.Len(t, snap.Interactions, 2)
	assert.False(t, snap.Interactions[1].Result.Found)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "No confident answer found.")
	assert.Contains(t, rec.Body.String(), "(exact match, confidence 100%)")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/faq-log.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Questions asked: 2 | Answered: 1")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	s := newTestServer(t, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FAQ002", decodeError(t, rec).Code)

	rec = do(t, s, formRequest("/ask", url.Values{"q": {""}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No question was entered")
	assert.Empty(t, s.session().Snapshot().Interactions)
}

func TestNotesAndFullReport(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, formRequest("/notes", url.Values{"notes": {"Discussed <summer> load."}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "Discussed &lt;summer&gt; load.")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/notes.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Discussed <summer> load.\n", rec.Body.String())

	do(t, s, httptest.NewRequest(http.MethodPost, "/validate/sample", nil))

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/export/report.txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "Advisor Assistant validation note"))
	assert.True(t, strings.HasSuffix(body, "Advisor Notes:\nDiscussed <summer> load.\n"))
}

func TestSessionReset(t *testing.T) {
	s := newTestServer(t, 1<<20)
	before := s.session().ID()
	s.session().SetNotes("old")

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/api/session/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, before, resp["sessionId"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, resp["sessionId"], snap.ID)
	assert.Empty(t, snap.Notes)
}

func TestListTables(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tables []TableInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tables))
	require.Len(t, tables, core.TableCount())

	byKey := make(map[string]TableInfo)
	for _, ti := range tables {
		byKey[ti.Key] = ti
	}
	assert.True(t, byKey[core.TablePlan].HasSample)
	assert.Equal(t, []core.Field{core.FieldCredits, core.FieldCategory}, byKey[core.TablePlan].Required)
	assert.False(t, byKey["policies"].HasSample)
	assert.True(t, byKey["policies"].PassThrough)
}

func TestDownloadTemplate(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/template/requirements", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "requirements_template.csv")
	assert.Equal(t, "Category,RequiredCredits\n", rec.Body.String())

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/template/contacts?format=xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	wb, err := tabular.ReadXLSX(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Office", "Contact", "Email", "Phone"}, wb.Header)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/template/grades", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TBL001", decodeError(t, rec).Code)
}

func TestDownloadSample(t *testing.T) {
	s := newTestServer(t, 1<<20)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/sample/plan", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sample_plan.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "CourseID,Title,Credits"))

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/sample/policies", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "TBL002")
}
