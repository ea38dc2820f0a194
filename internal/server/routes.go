package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/simctl/internal/protocol/manifest"
	"github.com/danmuck/simctl/internal/protocol/optype"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type operationView struct {
	Name   string `json:"name"`
	Marker string `json:"marker"`
	ID     int32  `json:"id"`
}

func viewOf(v optype.Variant) operationView {
	return operationView{Name: v.Name, Marker: string(v.Marker), ID: v.ID}
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"uptime":     time.Since(s.appeared).String(),
			"service":    s.Name,
			"version":    Version,
			"operations": s.registry.Len(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/operations", func(c *gin.Context) {
		variants := s.registry.Variants()
		out := make([]operationView, 0, len(variants))
		for _, v := range variants {
			out = append(out, viewOf(v))
		}
		c.JSON(http.StatusOK, gin.H{"operations": out})
	})

	s.router.GET("/operations/:id", func(c *gin.Context) {
		raw := c.Param("id")
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a 32-bit integer", "id": raw})
			return
		}
		v, err := s.registry.ResolveByID(int32(id))
		if err != nil {
			respondLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(v))
	})

	s.router.GET("/markers/:marker", func(c *gin.Context) {
		v, err := s.registry.ResolveByType(optype.Marker(c.Param("marker")))
		if err != nil {
			respondLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(v))
	})

	s.router.GET("/manifest", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := manifest.Encode(&buf, manifest.FromRegistry(s.registry)); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/toml", buf.Bytes())
	})
}

func respondLookupError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	if errors.Is(err, optype.ErrLookup) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
