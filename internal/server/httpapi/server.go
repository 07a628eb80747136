// Package httpapi exposes the entity store over REST plus a websocket
// realtime channel. Routing is gorilla/mux; every request is logged
// through an httpsnoop middleware.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/ourunion/unionhub/internal/logging"
	"github.com/ourunion/unionhub/internal/server/notifier"
	"github.com/ourunion/unionhub/internal/server/services"
)

type Server struct {
	addr        string
	logger      logging.Logger
	entities    *services.EntityService
	identity    *services.IdentityService
	attachments *services.AttachmentService
	hub         *notifier.Hub
	upgrader    websocket.Upgrader
}

func NewServer(addr string, l logging.Logger, es *services.EntityService,
	is *services.IdentityService, as *services.AttachmentService, hub *notifier.Hub) *Server {
	return &Server{
		addr:        addr,
		logger:      l.With("module", "httpapi"),
		entities:    es,
		identity:    is,
		attachments: as,
		hub:         hub,
		upgrader: websocket.Upgrader{
			// Browser clients connect from the site origin; the API is
			// bearer-token guarded, not cookie guarded.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the full route table. Exposed separately so tests can run
// handlers through httptest without a listener.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.Methods(http.MethodGet).Path("/ping").HandlerFunc(s.handlePing)

	api.Methods(http.MethodPost).Path("/auth/register").HandlerFunc(s.handleRegister)
	api.Methods(http.MethodPost).Path("/auth/login").HandlerFunc(s.handleLogin)
	api.Methods(http.MethodPost).Path("/auth/refresh").HandlerFunc(s.handleRefresh)

	api.Methods(http.MethodGet).Path("/entities/{key}").HandlerFunc(s.handleGetEntity)
	api.Methods(http.MethodPut).Path("/entities/{key}").HandlerFunc(s.withClaims(s.handlePutEntity))

	api.Methods(http.MethodPost).Path("/attachments/presign-put").HandlerFunc(s.requireAuth(s.handlePresignPut))
	api.Methods(http.MethodGet).Path("/attachments/url").HandlerFunc(s.handleAttachmentURL)

	api.Methods(http.MethodGet).Path("/realtime").HandlerFunc(s.handleRealtime)

	return r
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info(r.Context(), "handled",
			"method", r.Method, "url", r.URL.Path, "status", m.Code, "duration", m.Duration)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.addr)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
