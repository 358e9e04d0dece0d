// Package http serves the state tree over a JSON API: tree snapshot
// get/commit, cell inspection, session persistence and an SSE stream of
// tree updates. Routing is plain chi against the OpenAPI contract in
// openapi.yaml, which the server also serves for clients and Swagger UI.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/dto"
	"github.com/qqdb/molstar/internal/logging"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/session"
)

//go:embed openapi.yaml
var rawSpec []byte

// Engine defines the interface for the state-tree core.
type Engine interface {
	Current() domain.Snapshot
	Cells() []domain.Cell
	Cell(ref domain.Ref) (domain.Cell, bool)
	FindByTag(tag string) []domain.Cell
	TryCommit(ctx context.Context, next domain.Snapshot) error
	Busy() bool
}

// Watcher streams tree updates for the SSE endpoint.
type Watcher interface {
	Watch(ctx context.Context) <-chan domain.TreeEvent
}

// Server holds the engine and the optional collaborators the routes use.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Watcher  Watcher
	Metrics  http.Handler

	logger *slog.Logger

	specOnce sync.Once
	spec     *openapi3.T
	specErr  error
}

// Option configures a Server.
type Option func(*Server)

// WithSessions mounts the session routes on top of the given manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) { s.Sessions = m }
}

// WithWatcher enables the /events SSE endpoint.
func WithWatcher(w Watcher) Option {
	return func(s *Server) { s.Watcher = w }
}

// WithMetrics mounts the given handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithLogger sets the request logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/tree", s.GetTree)
	r.Put("/tree", s.PutTree)
	r.Get("/cells", s.GetCells)
	r.Get("/cells/{ref}", s.GetCell)
	r.Get("/events", s.SubscribeEvents)

	if s.Sessions != nil {
		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{id}", s.GetSession)
		r.Put("/sessions/{id}", s.PutSession)
		r.Delete("/sessions/{id}", s.DeleteSession)
		r.Post("/sessions/{id}/save", s.SaveSession)
		r.Post("/sessions/{id}/restore", s.RestoreSession)
	}
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Molstar API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":         "molstar-http",
		"version":     strings.TrimSpace(molstar.Version),
		"api_version": s.apiVersion(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// apiVersion reads the version out of the served OpenAPI document.
func (s *Server) apiVersion() string {
	s.specOnce.Do(func() {
		s.spec, s.specErr = openapi3.NewLoader().LoadFromData(rawSpec)
	})
	if s.specErr != nil || s.spec.Info == nil {
		return "unknown"
	}
	return s.spec.Info.Version
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Current())
}

// PutTree handles the PUT /tree request: commit a full snapshot.
func (s *Server) PutTree(w http.ResponseWriter, r *http.Request) {
	var next domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("tree commit: invalid request body", "err", err)
		return
	}

	if err := s.Engine.TryCommit(r.Context(), next); err != nil {
		if errors.Is(err, domain.ErrTreeBusy) {
			http.Error(w, "Tree busy, try again", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Commit error: %v", err), http.StatusInternalServerError)
		s.logger.Error("tree commit failed", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, s.Engine.Current())
}

// GetCells handles the GET /cells request. An optional ?tag= filters by
// transform tag.
func (s *Server) GetCells(w http.ResponseWriter, r *http.Request) {
	var cells []domain.Cell
	if tag := r.URL.Query().Get("tag"); tag != "" {
		cells = s.Engine.FindByTag(tag)
	} else {
		cells = s.Engine.Cells()
	}
	writeJSON(w, http.StatusOK, dto.SummarizeCells(cells))
}

// GetCell handles the GET /cells/{ref} request.
func (s *Server) GetCell(w http.ResponseWriter, r *http.Request) {
	ref := domain.Ref(chi.URLParam(r, "ref"))
	cell, ok := s.Engine.Cell(ref)
	if !ok {
		http.Error(w, fmt.Sprintf("No cell with ref '%s'", ref), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dto.SummarizeCell(cell))
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.Watcher == nil {
		http.Error(w, "Event streaming not configured", http.StatusNotImplemented)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.Watcher.Watch(r.Context())

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session list failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, fmt.Sprintf("No session '%s'", id), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session load failed", "session", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutSession handles the PUT /sessions/{id} request: store a snapshot.
func (s *Server) PutSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var snap domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.Sessions.Save(r.Context(), id, &snap); err != nil {
		// The manager validates before saving, so a failure here is
		// almost always the client's snapshot, not the store.
		http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session delete failed", "session", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveSession handles the POST /sessions/{id}/save request: persist the
// current tree under the session id.
func (s *Server) SaveSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.Engine.Current()
	if snap.Name == "" {
		snap.Name = id
	}
	if err := s.Sessions.Save(r.Context(), id, &snap); err != nil {
		http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session save failed", "session", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "saved",
		"records": len(snap.Records),
	})
}

// RestoreSession handles the POST /sessions/{id}/restore request: load a
// saved snapshot and commit it to the tree.
func (s *Server) RestoreSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, fmt.Sprintf("No session '%s'", id), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session load failed", "session", id, "err", err)
		return
	}

	if err := s.Engine.TryCommit(r.Context(), *snap); err != nil {
		if errors.Is(err, domain.ErrTreeBusy) {
			http.Error(w, "Tree busy, try again", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Commit error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session restore failed", "session", id, "err", err)
		return
	}

	writeJSON(w, http.StatusOK, s.Engine.Current())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing to do but note it.
		slog.Debug("response encode failed", "err", err)
	}
}
