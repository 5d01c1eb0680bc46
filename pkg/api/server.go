// Package api serves local-only diagnostics for a kiosk in the field:
// health, engine metrics, and recent visit history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/exhibitlabs/kiosk/pkg/events"
	"github.com/exhibitlabs/kiosk/pkg/lifecycle"
	"github.com/exhibitlabs/kiosk/pkg/log"
	"github.com/exhibitlabs/kiosk/pkg/repositories"
)

// SceneStats is supplied by the scene manager for the metrics endpoint.
type SceneStats interface {
	CurrentSceneName() string
	LoadedSceneNames() []string
}

type DiagnosticsServer struct {
	server *http.Server
}

type NewDiagnosticsServerOptions struct {
	Port       int
	Bus        *events.Bus
	Lifecycle  *lifecycle.Manager
	Scenes     SceneStats
	Repository repositories.Repository
}

// NewDiagnosticsServer creates an http.Server for handling diagnostics requests.
func NewDiagnosticsServer(opts NewDiagnosticsServerOptions) *DiagnosticsServer {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/debug/metrics", handleMetrics(opts)).Methods(http.MethodGet)
	if opts.Repository != nil {
		router.HandleFunc("/debug/visits", handleVisits(opts.Repository)).Methods(http.MethodGet)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", opts.Port),
		Handler: router,
	}
	return &DiagnosticsServer{
		server: server,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func handleMetrics(opts NewDiagnosticsServerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := map[string]interface{}{}
		if opts.Bus != nil {
			metrics["events"] = opts.Bus.Metrics()
		}
		if opts.Lifecycle != nil {
			metrics["lifecycle"] = opts.Lifecycle.Metrics()
		}
		if opts.Scenes != nil {
			metrics["scenes"] = map[string]interface{}{
				"current": opts.Scenes.CurrentSceneName(),
				"loaded":  opts.Scenes.LoadedSceneNames(),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			log.Error("Failed to encode metrics: %v", err)
			http.Error(w, "Failed to encode metrics", http.StatusInternalServerError)
		}
	}
}

func handleVisits(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		visits, err := repository.ListVisits(r.Context(), limit)
		if err != nil {
			log.Error("Failed to list visits: %v", err)
			http.Error(w, "Failed to list visits", http.StatusInternalServerError)
			return
		}

		type visitResponse struct {
			SessionID string `json:"session_id"`
			SceneName string `json:"scene_name"`
			EnteredAt string `json:"entered_at"`
			ExitedAt  string `json:"exited_at"`
		}
		out := make([]visitResponse, 0, len(visits))
		for _, visit := range visits {
			out = append(out, visitResponse{
				SessionID: visit.SessionID,
				SceneName: visit.SceneName,
				EnteredAt: visit.EnteredAt.Format("2006-01-02T15:04:05.000Z07:00"),
				ExitedAt:  visit.ExitedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Error("Failed to encode visits: %v", err)
			http.Error(w, "Failed to encode visits", http.StatusInternalServerError)
		}
	}
}

// Start starts the DiagnosticsServer.
func (s *DiagnosticsServer) Start() {
	log.Info("Diagnostics server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("Diagnostics server closed")
			return
		}
		log.Error("Diagnostics server error: %v", err)
	}
}

// Stop stops the DiagnosticsServer.
func (s *DiagnosticsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
