package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sam-maryland/playoffs-mcp-server/internal/league"
	"github.com/sam-maryland/playoffs-mcp-server/internal/nhl"
	"github.com/sam-maryland/playoffs-mcp-server/internal/service"
	"github.com/sam-maryland/playoffs-mcp-server/internal/simulation"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Server serves playoff race analyses over HTTP
type Server struct {
	service *service.PlayoffsService
	logger  *logrus.Logger
}

// NewServer creates an HTTP server backed by the playoffs service
func NewServer(svc *service.PlayoffsService, logger *logrus.Logger) *Server {
	return &Server{
		service: svc,
		logger:  logger,
	}
}

// Router returns the routes of the API
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/teams/{team}/odds", s.handleOdds).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team}/analysis", s.handleAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team}/bracket", s.handleBracket).Methods(http.MethodGet)
	r.HandleFunc("/teams/{team}/report", s.handleReport).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Handled request")
	})
}

// statusFor maps a domain error onto an HTTP status
func statusFor(err error) int {
	var apiErr *nhl.APIError
	switch {
	case errors.Is(err, league.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, league.ErrInsufficientData),
		errors.Is(err, league.ErrMalformedGame),
		errors.Is(err, simulation.ErrNoTrials),
		errors.Is(err, simulation.ErrIrrelevantGame):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	}).Error("Request failed")
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Status: status})
}

// trials reads the optional trials query parameter
func trials(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("trials")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, league.Insufficient("trials must be a positive integer, got %q", raw)
	}
	return n, nil
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:  r.Method + " is not allowed on " + r.URL.Path,
		Status: http.StatusMethodNotAllowed,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	n, err := trials(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	odds, err := s.service.Odds(r.Context(), mux.Vars(r)["team"], n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, odds)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	n, err := trials(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.Analyze(r.Context(), mux.Vars(r)["team"], n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBracket(w http.ResponseWriter, r *http.Request) {
	bracket, err := s.service.Bracket(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bracket)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	markdown, err := s.service.Report(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markdown)); err != nil {
		s.logger.WithError(err).Error("Failed to write report")
	}
}
