// Package server exposes a sealed operation registry over a read-only
// HTTP API for operators and peers checking wire tables.
package server

import (
	"net/http"
	"time"

	"github.com/danmuck/simctl/internal/observability"
	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const Version = "0.1.0"

// Server serves lookups against one sealed registry.
type Server struct {
	Name     string
	Addr     string
	registry *optype.Registry
	router   *gin.Engine
	appeared time.Time
}

// New builds the router for reg. reg is shared read-only with the caller.
func New(name, addr string, reg *optype.Registry, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		Name:     name,
		Addr:     addr,
		registry: reg,
		router:   gin.New(),
		appeared: time.Now(),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(observability.HTTPMiddleware(name, logger))
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Serve() error {
	return s.router.Run(s.Addr)
}
