// Package web provides the local advising dashboard: plan upload and
// validation, FAQ lookup, advisor notes and exports.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/JonMunkholm/advisor/internal/application"
	"github.com/JonMunkholm/advisor/internal/config"
	"github.com/JonMunkholm/advisor/internal/core"
	"github.com/JonMunkholm/advisor/internal/report"
	"github.com/JonMunkholm/advisor/internal/session"
	advmw "github.com/JonMunkholm/advisor/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Advisor is the behaviour the dashboard needs from the application layer.
type Advisor interface {
	Validate(ctx context.Context, plan core.Table, in application.Inputs) *core.Report
	Ask(ctx context.Context, question string) core.MatchResult
	Meta(source string) report.Meta
	FAQ() *core.FAQIndex
	Requirements() core.Requirements
	Policies() core.Table
	Contacts() core.Table
}

// Server is the HTTP server for the advising dashboard. It serves one
// advising session at a time.
type Server struct {
	advisor Advisor
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limits  *limiter

	mu   sync.Mutex
	sess *session.Session
}

// NewServer creates a new Server instance.
func NewServer(advisor Advisor, cfg *config.Config) *Server {
	s := &Server{
		advisor: advisor,
		cfg:     cfg,
		router:  chi.NewRouter(),
		limits:  newLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
		sess:    session.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.withSession)
	s.router.Use(advmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Post("/validate", s.handleValidate)
	s.router.Post("/validate/sample", s.handleValidateSample)
	s.router.Post("/ask", s.handleAsk)
	s.router.Post("/notes", s.handleNotes)
	s.router.Post("/session/reset", s.handleResetSession)

	// Downloads
	s.router.Get("/sample/{tableKey}", s.handleDownloadSample)
	s.router.Route("/export", func(r chi.Router) {
		r.Get("/note.txt", s.handleExportNote)
		r.Get("/issues.csv", s.handleExportIssuesCSV)
		r.Get("/issues.xlsx", s.handleExportIssuesXLSX)
		r.Get("/faq-log.txt", s.handleExportFAQLog)
		r.Get("/notes.txt", s.handleExportNotes)
		r.Get("/report.txt", s.handleExportReport)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Get("/template/{tableKey}", s.handleDownloadTemplate)
		r.Post("/validate", s.handleValidate)
		r.Post("/ask", s.handleAsk)
		r.Get("/session", s.handleSession)
		r.Post("/session/reset", s.handleResetSession)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("dashboard listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown waits for running validations, then gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if n := s.limits.active(); n > 0 {
		slog.Info("waiting for validations to complete", "active", n)
		if err := s.limits.drain(ctx); err != nil {
			slog.Warn("validations did not complete in time", "error", err)
		}
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// session returns the current advising session.
func (s *Server) session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// resetSession discards the history and starts a new session.
func (s *Server) resetSession() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = session.New()
	return s.sess
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		// Inline styles only; the dashboard loads no scripts
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
