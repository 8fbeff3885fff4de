// Package agent implements the filetrigger node agent: a small HTTP
// server that runs searches on its own host on behalf of remote callers.
// Traversal and pattern evaluation happen entirely here; only the outcome
// classification and the matched relative paths go back over the wire.
package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harrison/filetrigger/internal/node"
	"github.com/harrison/filetrigger/internal/pattern"
)

// Logger is the subset of logging the agent needs.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
}

// Server handles search requests from remote filetrigger instances.
type Server struct {
	router chi.Router
	log    Logger
}

// NewServer creates an agent server. log may be nil to disable logging.
func NewServer(log Logger) *Server {
	s := &Server{log: log}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/search", s.handleSearch)

	return r
}

// handleHealth reports agent liveness for node reachability checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch runs the matcher on this host and returns the classified
// outcome. Malformed requests and bad patterns are the caller's fault
// (400); anything else that fails during traversal is a 500.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req node.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid search request: "+err.Error())
		return
	}

	reply, err := node.Execute(r.Context(), req)
	if err != nil {
		if s.log != nil {
			s.log.LogWarn("search failed: " + err.Error())
		}
		status := http.StatusInternalServerError
		if errors.Is(err, pattern.ErrBadPattern) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	if s.log != nil {
		s.log.LogInfo("search " + req.Directory + ": " + string(reply.Outcome))
	}
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
