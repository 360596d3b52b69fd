// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/autopull/internal/api/handlers"
	"github.com/andresuchdata/autopull/internal/api/middleware"
	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	StockService      *service.StockService
	ReplanService     *service.ReplanService
	CollectionService *service.CollectionService
	DashboardService  *service.DashboardService
	LimitService      *service.LimitService
	ReportArchive     *service.ReportArchive
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.StockService != nil {
			stockHandler := handlers.NewStockHandler(services.StockService, services.ReportArchive)
			stockGroup := apiGroup.Group("/stock")
			{
				stockGroup.POST("/upload", stockHandler.Upload)
				stockGroup.GET("/search", stockHandler.Search)
				stockGroup.GET("/export", stockHandler.Export)
				stockGroup.POST("/clear", stockHandler.Clear)
			}
		}

		if services.ReplanService != nil {
			replanHandler := handlers.NewReplanHandler(services.ReplanService, services.ReportArchive)
			replanGroup := apiGroup.Group("/replans")
			{
				replanGroup.POST("", replanHandler.Generate)
				replanGroup.GET("", replanHandler.List)
				replanGroup.GET("/:runId", replanHandler.Get)
				replanGroup.GET("/:runId/export", replanHandler.Export)
				replanGroup.POST("/:runId/execute", replanHandler.ExecuteAll)
				replanGroup.POST("/:runId/lines/:lineId/execute", replanHandler.ExecuteLine)
			}
		}

		if services.CollectionService != nil {
			collectionHandler := handlers.NewCollectionHandler(services.CollectionService)
			collectionGroup := apiGroup.Group("/collection")
			{
				collectionGroup.GET("", collectionHandler.Current)
				collectionGroup.GET("/export", collectionHandler.Export)
				collectionGroup.POST("/execute", collectionHandler.ExecuteAll)
				collectionGroup.POST("/lines/:lineId/execute", collectionHandler.ExecuteLine)
			}
		}

		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
			apiGroup.GET("/dashboard", dashboardHandler.Get)
		}

		if services.LimitService != nil {
			limitHandler := handlers.NewLimitHandler(services.LimitService)
			limitGroup := apiGroup.Group("/limits")
			{
				limitGroup.GET("", limitHandler.Get)
				limitGroup.PUT("/default", limitHandler.SetDefault)
				limitGroup.PUT("/skus/:sku", limitHandler.SetSKU)
				limitGroup.DELETE("/skus/:sku", limitHandler.DeleteSKU)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
