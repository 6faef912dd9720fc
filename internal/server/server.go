package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskradar/internal/engine"
	"riskradar/internal/source"
)

// Server exposes the admin and status HTTP surface.
type Server struct {
	engine *engine.Engine
	cfg    *Config
	router *mux.Router
}

func New(eng *engine.Engine, cfg *Config) *Server {
	s := &Server{engine: eng, cfg: cfg, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/run", s.handleRun).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/incidents", s.handleIncidents).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/incidents/{id}/dismiss", s.handleDismiss).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/sources", s.handleSources).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/sources/categories", s.handleCategories).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/sources/validate", s.handleValidateSource).Methods(http.MethodPost)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) StartMetrics(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "err", err)
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"coordinator": s.engine.Coordinator().Status(),
		"active":      len(s.engine.Pipeline().Aggregator().Active()),
	}
	if last, ok := s.engine.LastCycle(); ok {
		status["last_cycle"] = last
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	result := s.engine.RunCycle(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	records, err := s.engine.Incidents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.engine.Dismiss(id) {
		http.Error(w, "incident not found or not dismissable", http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "dismissed"})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Sources())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, source.Categories())
}

func (s *Server) handleValidateSource(w http.ResponseWriter, r *http.Request) {
	var desc source.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
		http.Error(w, "invalid source descriptor: "+err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, desc.Validate())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}
