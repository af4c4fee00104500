package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"digital.vasic.challengegame/pkg/logging"
)

// Server exposes the dashboard and the event stream over HTTP:
//
//	GET /ws         WebSocket event stream
//	GET /dashboard  dashboard snapshot as JSON
//	GET /health     liveness probe
type Server struct {
	broadcaster *Broadcaster
	dashboard   *DashboardData
	logger      logging.Logger
	srv         *http.Server
}

// NewServer creates a monitor server listening on addr.
func NewServer(
	addr string,
	dashboard *DashboardData,
	broadcaster *Broadcaster,
	logger logging.Logger,
) *Server {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	s := &Server{
		broadcaster: broadcaster,
		dashboard:   dashboard,
		logger:      logger,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.broadcaster)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"clients": s.broadcaster.ClientCount(),
		})
	})
	return mux
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	if s.dashboard == nil {
		http.Error(w, "no dashboard", http.StatusNotFound)
		return
	}
	snap := s.dashboard.Snapshot()
	writeJSON(w, http.StatusOK, &snap)
}

// Serve listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("monitor listen %s: %w", s.srv.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("monitor listening",
			logging.StringField("addr", ln.Addr().String()))
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.broadcaster.Close()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), 5*time.Second,
	)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
