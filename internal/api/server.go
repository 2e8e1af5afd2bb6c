package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"MarketDash/internal/metrics"
)

// Handler registers a group of routes.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// Server wraps the Echo instance.
type Server struct {
	echo *echo.Echo
	log  zerolog.Logger
}

// NewServer wires middleware, the given handlers, /healthz and /metrics.
// m may be nil, in which case request latency is not recorded.
func NewServer(gatherer prometheus.Gatherer, m *metrics.Metrics, log zerolog.Logger, handlers ...Handler) *Server {
	log = log.With().Str("component", "http").Logger()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogging(log, m))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
	e.GET("/healthz", func(c echo.Context) error {
		return SuccessResponse(c, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return &Server{echo: e, log: log}
}

// Start serves on addr in the background.
func (s *Server) Start(addr string) {
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http server error")
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func requestLogging(log zerolog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			latency := time.Since(start)
			status := c.Response().Status

			route := c.Path()
			if m != nil && route != "/metrics" {
				m.ObserveRequest(route, status, latency)
			}
			ev := log.Debug()
			if status >= 500 {
				ev = log.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("latency", latency).
				Str("route", route).
				Msg("request")
			return nil
		}
	}
}
