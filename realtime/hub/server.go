package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// OccupancyResponse is the body of GET /api/v1/scenes/{sceneID}/occupancy.
type OccupancyResponse struct {
	SceneID  string `json:"sceneId"`
	Count    int    `json:"count"`
	MaxUsers int    `json:"maxUsers"`
	Full     bool   `json:"full"`
}

// NewRouter exposes the hub over HTTP.
//
// Routes:
//   - GET /ws: websocket upgrade
//   - GET /healthz: liveness
//   - GET /api/v1/scenes/{sceneID}/occupancy: room occupancy
func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "connections": h.Connections()})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scenes/{sceneID}/occupancy", func(w http.ResponseWriter, r *http.Request) {
		sceneID := mux.Vars(r)["sceneID"]
		count, err := h.Occupancy(r.Context(), sceneID)
		if err != nil {
			log.Printf("[Hub] occupancy for %q: %v", sceneID, err)
			http.Error(w, "occupancy unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, OccupancyResponse{
			SceneID:  sceneID,
			Count:    count,
			MaxUsers: h.MaxUsers(),
			Full:     count >= h.MaxUsers(),
		})
	}).Methods(http.MethodGet)
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[Hub] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Hub] write response: %v", err)
	}
}

// Serve runs the hub's HTTP server on addr until ctx is cancelled, then shuts down gracefully.
//
// Parameters:
//   - ctx: cancel to stop the server
//   - addr: listen address, e.g. ":8000"
//   - h: the hub to serve
//
// Returns:
//   - error: error if the listener fails
func Serve(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Hub] listening on %s (max %d users per scene)", addr, h.MaxUsers())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("hub server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("hub shutdown failed: %w", err)
	}
	log.Printf("[Hub] stopped")
	return nil
}
