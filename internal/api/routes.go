// Package api exposes card previews over HTTP.
package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the preview endpoints under /api.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/qr", s.qr)
		api.GET("/wrap", s.wrap)
		api.POST("/card", s.card)
		api.GET("/pages", s.pages)
	}
}

// NewRouter returns an engine with recovery, request logging and the
// preview routes.
func NewRouter(s *Server) *gin.Engine {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.Logger))
	s.RegisterRoutes(r)
	return r
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	}
}
