// Package server exposes the gistapi HTTP API: a ping endpoint, the gist
// search endpoint, and operational healthcheck/metrics endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gistapi/gistapi/internal/config"
	"github.com/gistapi/gistapi/pkg/logging"
	"github.com/gistapi/gistapi/pkg/search"
)

// Searcher runs one gist search. *search.Searcher implements it.
type Searcher interface {
	Search(ctx context.Context, username, pattern string) (*search.Result, error)
}

// Server is the gistapi HTTP server.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	searcher Searcher
	logger   zerolog.Logger
}

// New creates the HTTP server around a searcher.
func New(cfg *config.Config, searcher Searcher) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		cfg:      cfg,
		searcher: searcher,
		logger:   logging.NewLogger("server"),
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info().Str("uri", v.URI).Int("status", v.Status).Str("method", v.Method).
				Str("ip", ctx.RealIP()).TimeDiff("duration", time.Now(), v.StartTime).
				Msg("HTTP")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.HTTPErrorHandler = s.httpErrorHandler
	e.Validator = newValidator()

	e.GET("/ping", ping)
	e.GET("/healthcheck", healthcheck)
	e.POST("/api/v1/search", s.search)

	if cfg.MetricsEnabled {
		// HTTP metrics go to a per-server registry so that repeated server
		// construction (tests) does not double-register; /metrics serves the
		// union with the process-wide engine collectors.
		reg := prometheus.NewRegistry()
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "gistapi",
			Registerer: reg,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
		}))
	}

	return s
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	addr := s.cfg.HttpHost + ":" + s.cfg.HttpPort
	s.logger.Info().Str("addr", addr).Msg("Starting gistapi server")

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping gistapi server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP allows the server to be driven directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// errorBody is the single JSON error object returned for any failed request.
type errorBody struct {
	Error string `json:"error"`
}

// httpErrorHandler renders every error as a JSON error object. Internal
// detail only ever reaches the log, not the response.
func (s *Server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := genericErrorMessage

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	} else {
		s.logger.Error().Err(err).Msg("Unhandled error")
	}

	if writeErr := ctx.JSON(code, errorBody{Error: message}); writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
