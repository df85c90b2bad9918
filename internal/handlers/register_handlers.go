package handlers

import (
	"net/http"

	"github.com/SscSPs/order_export_app/cmd/docs"
	"github.com/SscSPs/order_export_app/internal/core/ports"
	portssvc "github.com/SscSPs/order_export_app/internal/core/ports/services"
	"github.com/SscSPs/order_export_app/internal/platform/config"
	"github.com/SscSPs/order_export_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteDeps carries the optional collaborators of the HTTP layer.
type RouteDeps struct {
	// Archive receives a copy of every successful download when set.
	Archive ports.FileSaver
	// Metrics serves the prometheus exposition at /metrics when set.
	Metrics http.Handler
	// APIMiddleware is applied to the /api/v1 group (rate limiting).
	APIMiddleware []gin.HandlerFunc
	Analytics     *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	setupAPIV1Routes(r, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1", deps.APIMiddleware...)

	registerExportRoutes(v1, newExportHandler(services.Export, deps.Archive, deps.Analytics))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
