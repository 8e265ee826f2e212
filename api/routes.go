package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes registers all gateway routes
func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := s.router.Group("/v1")
	{
		// Pool routes (public)
		pools := v1.Group("/pools")
		{
			pools.GET("", s.handleListPools)
			pools.GET("/by-denoms", s.handleGetPoolByDenoms)
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/:pool_id/twap", s.handleGetTWAP)
		}

		v1.GET("/quote", s.handleQuote)
		v1.GET("/params", s.handleGetParams)

		// Admin routes (login public, actions protected)
		admin := v1.Group("/admin")
		{
			admin.POST("/login", s.handleAdminLogin)

			adminProtected := admin.Group("")
			adminProtected.Use(s.AuthMiddleware())
			{
				adminProtected.POST("/pause", s.handleAdminPause)
				adminProtected.POST("/unpause", s.handleAdminUnpause)
			}
		}

		// Pool snapshot stream
		v1.GET("/ws/pools", s.handleWebSocket)
	}
}
