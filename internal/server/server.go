// Package server wires configuration into the trigger pipeline and serves it over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/condensed-game-notifier/internal/config"
	httpserver "github.com/preston-bernstein/condensed-game-notifier/internal/http"
	"github.com/preston-bernstein/condensed-game-notifier/internal/http/handlers"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/poller"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	components    *Components
	httpServer    httpServer
	metricsServer httpServer
	scheduler     Scheduler
	metricsStop   func(context.Context) error
}

// New builds the pipeline, the HTTP surface and, when a schedule is configured, the scheduler.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	comps, err := BuildComponents(ctx, cfg, logger, recorder)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}

	var sched Scheduler
	if cfg.Trigger.Schedule != "" {
		p, err := poller.New(comps.Controller, logger, recorder, cfg.Trigger.Schedule, cfg.Trigger.Location())
		if err != nil {
			_ = comps.Close()
			return nil, err
		}
		sched = p
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		components:    comps,
		httpServer:    buildHTTPServer(cfg, comps, logger, recorder, sched),
		metricsServer: metricsSrv,
		scheduler:     sched,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, comps *Components, httpSrv httpServer, sched Scheduler) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		components: comps,
		httpServer: httpSrv,
		scheduler:  sched,
	}
}

func buildHTTPServer(cfg config.Config, comps *Components, logger *slog.Logger, recorder *metrics.Recorder, sched Scheduler) httpServer {
	var statusFn func() poller.Status
	if sched != nil {
		statusFn = sched.Status
	}

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:         handlers.NewHandler(comps.Controller, cfg.Trigger.Key, logger, statusFn),
		Admin:           handlers.NewAdminHandler(comps.Controller, comps.Ledger, cfg.Trigger.Key, logger),
		Logger:          logger,
		Metrics:         recorder,
		AdminRateLimit:  cfg.AdminRate.Limit,
		AdminRateWindow: cfg.AdminRate.Window,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the servers and the scheduler, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.scheduler != nil {
		s.scheduler.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	// The scheduler stops before the listener so an in-flight cycle can finish.
	if s.scheduler != nil {
		if err := s.scheduler.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop scheduler", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if err := s.components.Close(); err != nil {
		logging.Warn(s.logger, "ledger close failed", "error", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Controller exposes the trigger controller.
func (s *Server) Controller() handlers.Controller {
	if s.components == nil {
		return nil
	}
	return s.components.Controller
}
