package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// QueryRunner is the pipeline capability the server needs.
type QueryRunner interface {
	Run(ctx context.Context, docURL string, questions []string) ([]model.Answer, error)
}

// Server is the thin HTTP layer in front of the pipeline.
type Server struct {
	engine *gin.Engine
	cfg    model.ServerConfig
}

// New creates the gin router with all routes and middleware wired.
func New(cfg model.ServerConfig, runner QueryRunner) *Server {
	engine := gin.Default()
	engine.Use(CORS(), RequestID())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "insurance-llm",
		})
	})

	handler := NewQueryHandler(runner)

	api := engine.Group("/api/v1")
	api.Use(BearerAuth(cfg.BearerToken))
	api.POST("/query", handler.RunQuery)

	return &Server{engine: engine, cfg: cfg}
}

// Run starts serving on the configured address, blocking until failure.
func (s *Server) Run() error {
	log.Printf("Server starting on %s", s.cfg.Addr)
	return s.engine.Run(s.cfg.Addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
