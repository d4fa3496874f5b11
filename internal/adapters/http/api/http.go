// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/songs/internal/adapters/http/site"
	"github.com/okian/songs/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SongsDependencies
	Pinger
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler   *site.RootHandler
	songsHandler  *SongsHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers. A nil logger discards output.
func NewServer(deps Dependencies, statsProvider StatsProvider, l logger.Logger) *Server {
	if l == nil {
		l = logger.Nop()
	}
	return &Server{
		rootHandler:   site.NewRootHandler(),
		songsHandler:  NewSongsHandler(deps, l),
		healthHandler: NewHealthHandler(deps, l),
		statsHandler:  NewStatsHandler(statsProvider),
		logger:        l,
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Use(RequestIDMiddleware, AccessLogMiddleware(s.logger))

	r.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root")).Methods(http.MethodGet)

	r.HandleFunc("/songs", MetricsMiddleware(s.songsHandler.HandleList, "songs_list")).Methods(http.MethodGet)
	r.HandleFunc("/songs", MetricsMiddleware(s.songsHandler.HandleCreate, "songs_create")).Methods(http.MethodPost)
	r.HandleFunc("/songs/{id}", MetricsMiddleware(s.songsHandler.HandleUpdate, "songs_update")).Methods(http.MethodPut)
	r.HandleFunc("/songs/{id}", MetricsMiddleware(s.songsHandler.HandleDelete, "songs_delete")).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
