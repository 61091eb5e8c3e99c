package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"burnrate/internal/infrastructure/config"
)

// ExpositionServer serves the Prometheus registry on a dedicated listener,
// kept off the game API port so scrapes never compete with player traffic.
type ExpositionServer struct {
	logger     *zap.Logger
	httpServer *http.Server
}

// NewExpositionServer builds the /metrics listener from config. Returns nil
// when metrics are disabled or the registry was never initialized; callers
// treat a nil server as "nothing to run".
func NewExpositionServer(cfg config.MetricsConfig, logger *zap.Logger) *ExpositionServer {
	if !cfg.Enabled || Registry == nil {
		return nil
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	return &ExpositionServer{
		logger: logger,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving and blocks until the listener closes.
func (s *ExpositionServer) Start() error {
	s.logger.Info("metrics server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop drains in-flight scrapes up to the context deadline.
func (s *ExpositionServer) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
