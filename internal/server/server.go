// Package server exposes the dashboard over HTTP: the four pages as HTML and
// the same data as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KaramelBytes/premiumlens/internal/dataset"
	"github.com/KaramelBytes/premiumlens/internal/predict"
	"github.com/KaramelBytes/premiumlens/internal/render"
	"github.com/KaramelBytes/premiumlens/internal/utils"
	"github.com/KaramelBytes/premiumlens/internal/views"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is the long-lived state shared read-only by all requests.
type Deps struct {
	Table       *dataset.Table
	Pipeline    *predict.Pipeline
	Choices     *predict.Choices
	Size        render.Size
	Logger      *slog.Logger
	CORSOrigins []string
}

// Server routes dashboard requests.
type Server struct {
	deps   Deps
	log    *slog.Logger
	engine *gin.Engine
	pages  map[views.Page]*utils.Lazy[[]renderedSection]
}

// New builds the router. Deps must carry a table, a pipeline and choices.
func New(d Deps) (*Server, error) {
	if d.Table == nil || d.Pipeline == nil || d.Choices == nil {
		return nil, errors.New("server: table, pipeline and choices are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	s := &Server{deps: d, log: d.Logger, pages: map[views.Page]*utils.Lazy[[]renderedSection]{}}
	for _, p := range views.Pages {
		if !p.IsAnalysis() {
			continue
		}
		page := p
		s.pages[page] = utils.NewLazy(func() ([]renderedSection, error) { return s.renderPage(page) })
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(s.log), gin.Recovery())
	r.SetHTMLTemplate(pageTemplates)

	r.GET("/", s.showPrediction)
	r.GET("/pages/:page", s.showPage)
	r.POST("/predict", s.submitPrediction)
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.Use(corsMiddleware(s.deps.CORSOrigins))
	{
		api.GET("/choices", s.apiChoices)
		api.POST("/predict", s.apiPredict)
		api.GET("/views/:page", s.apiView)
	}
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("dashboard listening", "addr", addr, "rows", s.deps.Table.Nrow(), "model", s.deps.Pipeline.Model.Kind())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
