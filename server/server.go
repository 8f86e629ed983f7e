// Package server exposes the scheduler over HTTP. The transport stays
// deliberately thin: it decodes the request, calls the façade's Schedule
// entry point, and encodes the resulting outcome. All scheduling semantics
// live behind that call.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/hupe1980/calmesh"
	"github.com/hupe1980/calmesh/logging"
)

// ScheduleRequest is the wire shape of a scheduling request.
type ScheduleRequest struct {
	UserInput string `json:"user_input"`
	UserEmail string `json:"user_email"`
}

// Options configures the Server.
type Options struct {
	// Logger receives request telemetry; defaults to NoOpLogger.
	Logger logging.Logger
}

// Server routes HTTP traffic to a calmesh.Scheduler.
type Server struct {
	scheduler *calmesh.Scheduler
	logger    logging.Logger
	mux       *http.ServeMux
}

// New creates a Server over the scheduler.
func New(scheduler *calmesh.Scheduler, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		scheduler: scheduler,
		logger:    opts.Logger,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /schedule", s.handleSchedule)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("Malformed schedule request", "error", err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	outcome := s.scheduler.Schedule(r.Context(), req.UserInput, req.UserEmail)
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "CalMesh scheduler is running",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scheduler.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
