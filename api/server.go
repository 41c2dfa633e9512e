package api

import (
	"net/http"

	"exion/config"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP router with both the user and admin surfaces
func NewRouter(cfg *config.Config, userHandler *UserHandler, adminHandler *AdminHandler) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userHandler.RegisterRoutes(r)

	admin := r.Group("/admin")
	admin.Use(AdminAuth(cfg.AdminToken))
	adminHandler.RegisterRoutes(admin)

	return r
}
