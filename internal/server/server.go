package server

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentilyze/internal/metrics"
	"github.com/spacesedan/sentilyze/internal/models"
	"github.com/spacesedan/sentilyze/internal/processing"
)

//go:embed templates/*.html
var templateFiles embed.FS

// HealthCheck is a named readiness check.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Options struct {
	Port         string
	MaxTextBytes int64
	HealthChecks []HealthCheck
	Metrics      *metrics.Metrics
	MetricsPage  http.Handler
}

type Server struct {
	echo      *echo.Echo
	templates *template.Template

	scorer       processing.SentenceScorer
	metrics      *metrics.Metrics
	metricsPage  http.Handler
	healthChecks []HealthCheck

	port         string
	maxTextBytes int64
	startTime    time.Time

	// set after a first-run resource download, cleared by the first successful analysis
	downloadNotice atomic.Bool
}

func NewServer(scorer processing.SentenceScorer, opts Options) (*Server, error) {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		templates:    templates,
		scorer:       scorer,
		metrics:      opts.Metrics,
		metricsPage:  opts.MetricsPage,
		healthChecks: opts.HealthChecks,
		port:         opts.Port,
		maxTextBytes: opts.MaxTextBytes,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

// AnnounceDownload makes every page tell the user that language data was fetched on
// this run, until the first analysis completes.
func (s *Server) AnnounceDownload() {
	s.downloadNotice.Store(true)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.port))
	if err := s.echo.Start(":" + s.port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// renderPage executes the index template into a buffer first so a template error
// never leaves a half-written page. Pages echo the submitted text back, so they are
// not cached.
func (s *Server) renderPage(c echo.Context, page pageData) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, INDEX_TEMPLATE, page); err != nil {
		slog.Error("[Server] Failed to render analysis page",
			slog.Bool("has_result", page.Result != nil),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render page").SetInternal(err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

var templateFuncs = template.FuncMap{
	"labelClass": func(label models.SentimentLabel) string {
		return "label-" + strings.ToLower(string(label))
	},
}
