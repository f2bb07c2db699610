// Package server exposes the draft/fact-check/finalize/publish flow as a
// small web UI plus a JSON API.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/postfactum/internal/draft"
	"github.com/ppiankov/postfactum/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Drafter generates post variants
type Drafter interface {
	Generate(ctx context.Context, req draft.Request) ([]model.DraftVariant, error)
}

// Auditor fact-checks a text
type Auditor interface {
	Audit(ctx context.Context, text string) ([]model.AuditRecord, error)
}

// Searcher runs a research query for draft grounding
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
}

// Publisher posts finalized text to Bluesky
type Publisher interface {
	Publish(ctx context.Context, text string) model.PublishResult
}

// Server wires the handlers to the pipeline components
type Server struct {
	engine    *gin.Engine
	logger    *zap.Logger
	drafter   Drafter
	auditor   Auditor
	searcher  Searcher
	publisher Publisher
}

// New creates a server with all dependencies injected
func New(drafter Drafter, auditor Auditor, searcher Searcher, publisher Publisher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:    engine,
		logger:    logger,
		drafter:   drafter,
		auditor:   auditor,
		searcher:  searcher,
		publisher: publisher,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying HTTP handler (used by tests)
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails
func (s *Server) Run(addr string) error {
	s.logger.Info("server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/", s.home)
	ui := s.engine.Group("/ui")
	{
		ui.POST("/generate", s.uiGenerate)
		ui.POST("/factcheck", s.uiFactcheck)
		ui.POST("/finalize", s.uiFinalize)
		ui.POST("/publish/bluesky", s.uiPublishBluesky)
	}

	api := s.engine.Group("/api")
	{
		api.POST("/draft", s.apiDraft)
		api.POST("/factcheck", s.apiFactcheck)
		api.POST("/finalize", s.apiFinalize)
		api.POST("/publish", s.apiPublish)
	}
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
