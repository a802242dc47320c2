package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/shared/config"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything NewRouter needs.
type RouterDeps struct {
	Cfg config.Config

	// LocalFilesDir, when set, is served under the public base URL so
	// locally stored uploads are downloadable.
	LocalFilesDir string

	Registrars []RouteRegistrar
}

// NewRouter builds the gin engine with the full middleware chain and
// all feature routes mounted under /api/v1.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(deps.Cfg.CORSAllowOrigin))
	router.Use(middleware.Auth(deps.Cfg.Env))

	router.GET("/metrics", metrics.Handler())

	if deps.LocalFilesDir != "" {
		router.Static(deps.Cfg.PublicBaseURL, deps.LocalFilesDir)
	}

	api := router.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, registrar := range deps.Registrars {
		registrar.RegisterRoutes(api)
	}

	return router
}

// Addr returns the listen address for a configured port.
func Addr(port string) string {
	return ":" + port
}
