package web

// views.go holds the dashboard components. They are plain templ components
// built with templ.ComponentFunc; every dynamic string goes through esc.

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/sample"
	"github.com/JonMunkholm/advisor/internal/session"
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// DashboardData is everything the dashboard page shows.
type DashboardData struct {
	Program      string
	CatalogYear  string
	SessionID    string
	FAQCount     int
	Requirements core.Requirements
	LastRun      *session.Run
	Interactions []session.Interaction
	Notes        string
	Policies     core.Table
	Contacts     core.Table
	Tables       []core.TableDefinition
}

const styles = `body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1d2430}
header{background:#12355b;color:#fff;padding:12px 24px}header h1{margin:0;font-size:20px}
main{max-width:1100px;margin:0 auto;padding:16px 24px}
section{background:#fff;border:1px solid #dde2ea;border-radius:6px;padding:16px;margin-bottom:16px}
h2{font-size:17px;margin-top:0}table{border-collapse:collapse;width:100%}
td,th{border-bottom:1px solid #e6e9ef;padding:4px 8px;text-align:left;font-size:14px}
.muted{color:#66707f;font-size:13px}.error{color:#a11d2b}.warning{color:#8a5a00}.ok{color:#1d6b34}
.alert{border:1px solid #e3a1a8;background:#fdf0f1;padding:12px;border-radius:6px}
textarea{width:100%;min-height:90px}input[type=text]{width:70%}
ol li{margin-bottom:4px;font-size:14px}`

// html writes formatted markup, remembering the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) printf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<title>%s</title><style>%s</style></head><body>`, esc(title), styles)
		h.printf(`<header><h1>Advisor Assistant</h1></header><main>`)
		h.render(ctx, body)
		h.printf(`</main></body></html>`)
		return h.err
	})
}

// ErrorAlert renders a user-facing error message.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<div class="alert" role="alert"><strong>%s</strong>`, esc(msg.Message))
		if msg.Action != "" {
			h.printf(`<p>%s</p>`, esc(msg.Action))
		}
		h.printf(`<p class="muted">Code: %s</p></div>`, esc(msg.Code))
		h.printf(`<p><a href="/">Back to dashboard</a></p>`)
		return h.err
	})
}

// ErrorPage is ErrorAlert inside the page shell.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error - Advisor Assistant", ErrorAlert(msg))
}

// Dashboard renders the main page.
func Dashboard(d DashboardData) templ.Component {
	return Layout("Advisor Assistant", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<p class="muted">Program: %s | Catalog: %s | FAQ entries: %d | Session %s</p>`,
			esc(orDash(d.Program)), esc(orDash(d.CatalogYear)), d.FAQCount, esc(shortID(d.SessionID)))
		h.render(ctx, uploadPanel(d))
		h.render(ctx, reportPanel(d.LastRun))
		h.render(ctx, faqPanel(d.Interactions))
		h.render(ctx, notesPanel(d.Notes))
		h.render(ctx, referencePanel("Policies", "policies", d.Policies))
		h.render(ctx, referencePanel("Contacts & Resources", "contacts", d.Contacts))
		h.render(ctx, templatesPanel(d.Tables))
		return h.err
	}))
}

func uploadPanel(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="upload"><h2>Plan check</h2>`)
		h.printf(`<form method="post" action="/validate" enctype="multipart/form-data">`)
		h.printf(`<p><label>Student plan (CSV or XLSX) <input type="file" name="plan" accept=".csv,.txt,.tsv,.xlsx,.xlsm" required></label></p>`)
		h.printf(`<p><label>Requirements (optional) <input type="file" name="requirements" accept=".csv,.xlsx"></label></p>`)
		h.printf(`<p><label>Catalog (optional) <input type="file" name="catalog" accept=".csv,.xlsx"></label></p>`)
		h.printf(`<button type="submit">Validate plan</button></form>`)
		h.printf(`<form method="post" action="/validate/sample"><button type="submit">Use sample plan</button></form>`)
		if len(d.Requirements) > 0 {
			parts := make([]string, len(d.Requirements))
			for i, r := range d.Requirements {
				parts[i] = fmt.Sprintf("%s %s", r.Category, report.Credits(r.RequiredCredits))
			}
			h.printf(`<p class="muted">Default requirements: %s</p>`, esc(strings.Join(parts, ", ")))
		}
		h.printf(`</section>`)
		return h.err
	})
}

func reportPanel(run *session.Run) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="report"><h2>Validation</h2>`)
		if run == nil {
			h.printf(`<p class="muted">No plan validated yet.</p></section>`)
			return h.err
		}

		rep := &run.Report
		s := rep.Summary
		h.printf(`<p>%s: %s rows (%s valid), %s credits, %d completed, %d planned.</p>`,
			esc(orDash(run.Source)), humanize.Comma(int64(s.Rows)), humanize.Comma(int64(s.ValidRows)),
			esc(report.Credits(s.TotalCredits)), s.Completed, s.Planned)

		items := report.Items(rep)
		if len(items) == 0 {
			h.printf(`<p class="ok">No issues detected.</p>`)
		} else {
			h.printf(`<ol>`)
			for _, it := range items {
				class := "warning"
				if it.Type == "Error" {
					class = "error"
				}
				h.printf(`<li class="%s">%s</li>`, class, esc(it.String()))
			}
			h.printf(`</ol>`)
		}

		if counts := rep.CountByKind(); len(counts) > 0 {
			h.printf(`<h3>Summary by kind</h3><table><thead><tr><th>Code</th><th>Kind</th><th>Count</th></tr></thead><tbody>`)
			for _, c := range counts {
				h.printf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
					esc(c.Code), esc(string(c.Kind)), humanize.Comma(int64(c.Count)))
			}
			h.printf(`</tbody></table>`)
		}

		if rows := report.CategoryRows(rep); len(rows) > 0 {
			h.printf(`<h3>Categories</h3><table><thead><tr><th>Category</th><th>Credits</th><th>Required</th><th>Gap</th></tr></thead><tbody>`)
			for _, row := range rows {
				required, gap := "", ""
				if row.Gap > 0 {
					required, gap = report.Credits(row.Required), report.Credits(row.Gap)
				}
				h.printf(`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					esc(row.Category), esc(report.Credits(row.Credits)), esc(required), esc(gap))
			}
			h.printf(`</tbody></table>`)
		}

		h.printf(`<p><a href="/export/note.txt">Advisor note (.txt)</a> | `)
		h.printf(`<a href="/export/issues.csv">Issues (.csv)</a> | <a href="/export/issues.xlsx">Issues (.xlsx)</a></p>`)
		h.printf(`</section>`)
		return h.err
	})
}

func faqPanel(interactions []session.Interaction) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="faq"><h2>Ask the FAQ</h2>`)
		h.printf(`<form method="post" action="/ask"><input type="text" name="q" placeholder="When can I register?" required> `)
		h.printf(`<button type="submit">Ask</button></form>`)

		// newest first
		for i := len(interactions) - 1; i >= 0; i-- {
			in := interactions[i]
			h.printf(`<div><p><strong>Q:</strong> %s</p>`, esc(in.Query))
			if in.Result.Found {
				h.printf(`<p><strong>A:</strong> %s <span class="muted">(%s match, confidence %s%%)</span></p>`,
					esc(in.Result.Answer), esc(string(in.Result.Method)), humanize.FtoaWithDigits(in.Result.Score*100, 0))
			} else {
				h.printf(`<p class="warning">No confident answer found.</p>`)
				if len(in.Result.Suggestions) > 0 {
					h.printf(`<p class="muted">Did you mean: `)
					for j, s := range in.Result.Suggestions {
						if j > 0 {
							h.printf(`; `)
						}
						h.printf(`%s`, esc(s.Question))
					}
					h.printf(`</p>`)
				}
			}
			h.printf(`</div>`)
		}
		if len(interactions) > 0 {
			h.printf(`<p><a href="/export/faq-log.txt">FAQ log (.txt)</a></p>`)
		}
		h.printf(`</section>`)
		return h.err
	})
}

func notesPanel(notes string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="notes"><h2>Advisor notes &amp; export</h2>`)
		h.printf(`<form method="post" action="/notes"><textarea name="notes" placeholder="Type advisor notes here...">%s</textarea>`, esc(notes))
		h.printf(`<p><button type="submit">Save notes</button></p></form>`)
		h.printf(`<p><a href="/export/notes.txt">Notes (.txt)</a> | <a href="/export/report.txt">Full report (.txt)</a></p>`)
		h.printf(`<form method="post" action="/session/reset"><button type="submit">Start new session</button></form>`)
		h.printf(`</section>`)
		return h.err
	})
}

func referencePanel(title, id string, t core.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="%s"><h2>%s</h2>`, esc(id), esc(title))
		if len(t.Header) == 0 {
			h.printf(`<p class="muted">No %s data configured.</p></section>`, esc(strings.ToLower(title)))
			return h.err
		}
		h.render(ctx, dataTable(t))
		h.printf(`</section>`)
		return h.err
	})
}

func dataTable(t core.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<table><thead><tr>`)
		for _, col := range t.Header {
			h.printf(`<th>%s</th>`, esc(col))
		}
		h.printf(`</tr></thead><tbody>`)
		for _, row := range t.Rows {
			h.printf(`<tr>`)
			for i := range t.Header {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				h.printf(`<td>%s</td>`, esc(cell))
			}
			h.printf(`</tr>`)
		}
		h.printf(`</tbody></table>`)
		return h.err
	})
}

func templatesPanel(defs []core.TableDefinition) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.printf(`<section id="templates"><h2>Templates</h2><table><tbody>`)
		for _, def := range defs {
			h.printf(`<tr><td>%s</td><td class="muted">%s</td><td>`, esc(def.Label), esc(def.Description))
			h.printf(`<a href="/api/template/%s">CSV</a> | <a href="/api/template/%s?format=xlsx">XLSX</a>`, esc(def.Key), esc(def.Key))
			if _, err := sample.Bytes(def.Key); err == nil {
				h.printf(` | <a href="/sample/%s">Sample</a>`, esc(def.Key))
			}
			h.printf(`</td></tr>`)
		}
		h.printf(`</tbody></table></section>`)
		return h.err
	})
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
