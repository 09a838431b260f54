// Package httpapi exposes the scan-and-translate workflow over HTTP: upload
// a page, read back the normalized result, edit it, ask follow-up questions,
// download the final pair.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/oukeidos/scantranslate/internal/extract"
	"github.com/oukeidos/scantranslate/internal/inquiry"
	"github.com/oukeidos/scantranslate/internal/logger"
	"github.com/oukeidos/scantranslate/internal/render"
	"github.com/oukeidos/scantranslate/internal/session"
)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadMB     int
}

type Server struct {
	sessions  *session.Manager
	extractor *extract.Service
	composer  *inquiry.Composer
	renderer  render.PageRenderer
	opts      Options
}

func NewServer(sessions *session.Manager, extractor *extract.Service, composer *inquiry.Composer, renderer render.PageRenderer, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := opts.Port
	if port <= 0 {
		port = 8501
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	// Extraction calls wait on the model; the write timeout must outlast
	// the gateway request timeout.
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Minute
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	maxUploadMB := opts.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}

	return &Server{
		sessions:  sessions,
		extractor: extractor,
		composer:  composer,
		renderer:  renderer,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			MaxUploadMB:     maxUploadMB,
		},
	}
}

// routes builds the echo instance. Split from Start so handler tests can
// drive it with httptest without binding a socket.
func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", s.opts.MaxUploadMB)))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("http request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"request_id", v.RequestID,
					"error", v.Error,
				)
				return nil
			}
			logger.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api")
	api.GET("/languages", s.handleLanguages)
	api.POST("/sessions", s.handleCreateSession)
	api.POST("/sessions/:id/extract", s.handleExtract)
	api.PUT("/sessions/:id/context", s.handleSaveContext)
	api.POST("/sessions/:id/inquiries", s.handleInquiry)
	api.GET("/sessions/:id/history", s.handleHistory)
	api.GET("/sessions/:id/export", s.handleExport)

	return e
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.sessions == nil || s.extractor == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := s.routes()
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("server shutdown failed", "error", shutdownErr)
		}
	}()

	logger.Info("server started", "addr", addr, "configured", s.extractor.Configured())

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch v := he.Message.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				message = v
			}
		default:
			if text := strings.TrimSpace(http.StatusText(status)); text != "" {
				message = text
			}
		}
	} else if err != nil {
		message = err.Error()
	}

	if status >= 500 {
		_ = internalError(c, "Internal server error")
		return
	}
	_ = fail(c, status, message, nil)
}
