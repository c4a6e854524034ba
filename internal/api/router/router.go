// Package router sets up the API routes for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/resumeforge/resumeforge/consts"
	"github.com/resumeforge/resumeforge/internal/api/handler"
	"github.com/resumeforge/resumeforge/internal/api/middleware"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/store"
)

// Setup configures all API routes
func Setup(r *gin.Engine, exporter handler.Exporter, renderer render.Renderer, cfg *config.Config, s store.Store) {
	// Apply global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(&middleware.LoggerConfig{
		AccessLog: cfg.Logging.AccessLog,
	}))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(cfg.Server.Debug))

	// Apply OpenTelemetry tracing middleware
	r.Use(otelgin.Middleware(consts.ServiceName))

	// Health check endpoint (public)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")

	// ============== Public routes ==============

	adminHandler := handler.NewAdminHandler(cfg, s, renderer)
	v1.GET("/templates", adminHandler.ListTemplates)

	// ============== Owner-scoped routes ==============

	// Auth happens upstream; the Owner middleware resolves the owner key
	// the proxy forwards.
	owned := v1.Group("")
	owned.Use(middleware.Owner(cfg.Server.DefaultOwner))

	// Resume CRUD
	resumeHandler := handler.NewResumeHandler(s, renderer)
	resumes := owned.Group("/resumes")
	{
		resumes.POST("", resumeHandler.CreateResume)
		resumes.GET("", resumeHandler.ListResumes)
		resumes.GET("/:id", resumeHandler.GetResume)
		resumes.PUT("/:id", resumeHandler.UpdateResume)
		resumes.DELETE("/:id", resumeHandler.DeleteResume)
	}

	// Export pipeline
	exportHandler := handler.NewExportHandler(exporter, s)
	{
		resumes.POST("/:id/export", exportHandler.ExportPDF)
		resumes.POST("/:id/export/image", exportHandler.ExportImage)
		resumes.GET("/:id/overflow", exportHandler.MeasureOverflow)
	}

	// Export history
	exports := owned.Group("/exports")
	{
		exports.GET("", exportHandler.ListExports)
		exports.GET("/:id", exportHandler.GetExport)
	}

	// Credit ledger
	creditHandler := handler.NewCreditHandler(s)
	owned.GET("/credits", creditHandler.GetBalance)

	// ============== Admin routes ==============

	admin := v1.Group("/admin")
	{
		admin.GET("/meta", adminHandler.GetAppMeta)
		admin.GET("/status", adminHandler.GetStatus)
		admin.GET("/stats", adminHandler.GetStats)
		admin.POST("/credits/grant", creditHandler.Grant)
	}
}
