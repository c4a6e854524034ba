package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/consts"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/store"
)

// AdminHandler handles admin and meta HTTP requests
type AdminHandler struct {
	config   *config.Config
	store    store.Store
	renderer render.Renderer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(cfg *config.Config, s store.Store, r render.Renderer) *AdminHandler {
	return &AdminHandler{config: cfg, store: s, renderer: r}
}

// GetAppMeta handles GET /api/v1/admin/meta
// Returns application name and build information
func (h *AdminHandler) GetAppMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":       consts.ProjectName,
		"version":    consts.Version,
		"build_time": consts.BuildTime,
		"git_commit": consts.GitCommit,
	})
}

// GetStatus handles GET /api/v1/admin/status
func (h *AdminHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "running",
		"uptime":  consts.GetUptime().Round(time.Second).String(),
		"version": consts.Version,
	})
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	totalResumes, _ := h.store.Resume().CountAll()
	totalExports, _ := h.store.Export().CountAll()

	c.JSON(http.StatusOK, gin.H{
		"total_resumes": totalResumes,
		"total_exports": totalExports,
	})
}

// ListTemplates handles GET /api/v1/templates
// Public endpoint for the editor's template picker
func (h *AdminHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.renderer.Templates(),
	})
}
