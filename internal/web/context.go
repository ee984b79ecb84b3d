package web

import (
	"net/http"

	"github.com/JonMunkholm/advisor/internal/logging"
)

// withSession tags the request context with the current session id so every
// log entry for the request carries it.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithSession(r.Context(), s.session().ID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
