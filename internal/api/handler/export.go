package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/export/imageout"
	"github.com/resumeforge/resumeforge/internal/export/measure"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Exporter is the slice of the export orchestrator the handler needs.
type Exporter interface {
	ExportPDF(ctx context.Context, req export.Request) (*export.Artifact, error)
	ExportImage(ctx context.Context, req export.Request, format imageout.Format) (*export.Artifact, error)
	MeasureOverflow(ctx context.Context, resume *model.Resume) (measure.Report, error)
}

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	exporter Exporter
	store    store.Store
}

// NewExportHandler creates a new export handler
func NewExportHandler(e Exporter, s store.Store) *ExportHandler {
	return &ExportHandler{exporter: e, store: s}
}

// ExportPDF handles POST /api/v1/resumes/:id/export
// The free query flag selects the watermarked no-charge path.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	resume, ok := h.fetchResume(c)
	if !ok {
		return
	}

	artifact, err := h.exporter.ExportPDF(c.Request.Context(), export.Request{
		Resume: resume,
		Free:   parseFreeFlag(c),
	})
	if err != nil {
		h.respondExportError(c, resume.ID, err)
		return
	}

	h.deliver(c, artifact)
}

// ExportImage handles POST /api/v1/resumes/:id/export/image
// The format query selects png (default) or jpeg.
func (h *ExportHandler) ExportImage(c *gin.Context) {
	format, err := imageout.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	resume, ok := h.fetchResume(c)
	if !ok {
		return
	}

	artifact, err := h.exporter.ExportImage(c.Request.Context(), export.Request{
		Resume: resume,
		Free:   parseFreeFlag(c),
	}, format)
	if err != nil {
		h.respondExportError(c, resume.ID, err)
		return
	}

	h.deliver(c, artifact)
}

// MeasureOverflow handles GET /api/v1/resumes/:id/overflow
// Advisory measurement against the single-page budget; never blocks export.
func (h *ExportHandler) MeasureOverflow(c *gin.Context) {
	resume, ok := h.fetchResume(c)
	if !ok {
		return
	}

	report, err := h.exporter.MeasureOverflow(c.Request.Context(), resume)
	if err != nil {
		h.respondExportError(c, resume.ID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"overflow":           report.Overflow,
		"natural_height_px":  report.NaturalHeightPx,
		"fallback_height_px": report.FallbackHeightPx,
		"budget_px":          report.BudgetPx,
	})
}

// ListExports handles GET /api/v1/exports
func (h *ExportHandler) ListExports(c *gin.Context) {
	page, pageSize := parsePagination(c)

	records, total, err := h.store.Export().ListByOwner(ownerID(c), page, pageSize)
	if err != nil {
		logger.Error("Failed to list export records", zap.Error(err))
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to list exports", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetExport handles GET /api/v1/exports/:id
func (h *ExportHandler) GetExport(c *gin.Context) {
	record, err := h.store.Export().GetByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    errors.ErrCodeNotFound,
				"message": "Export record not found",
			})
			return
		}
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to fetch export record", err))
		return
	}
	// Records are owner-scoped like resumes
	if record.OwnerID != ownerID(c) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    errors.ErrCodeNotFound,
			"message": "Export record not found",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// deliver writes the artifact as a file download.
func (h *ExportHandler) deliver(c *gin.Context, artifact *export.Artifact) {
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Header("X-Export-Watermarked", strconv.FormatBool(artifact.Outcome.Watermarked))
	c.Header("X-Export-Overflow", strconv.FormatBool(artifact.Outcome.Overflow))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// fetchResume loads the export target scoped to the request owner.
func (h *ExportHandler) fetchResume(c *gin.Context) (*model.Resume, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid resume ID",
		})
		return nil, false
	}

	resume, err := h.store.Resume().GetByIDAndOwner(id, ownerID(c))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    errors.ErrCodeNotFound,
				"message": "Resume not found",
			})
			return nil, false
		}
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to fetch resume", err))
		return nil, false
	}
	return resume, true
}

func (h *ExportHandler) respondExportError(c *gin.Context, resumeID string, err error) {
	appErr, _ := errors.AsAppError(err)
	if appErr == nil || appErr.HTTPStatus() >= http.StatusInternalServerError {
		logger.Error("Export failed",
			zap.String("resume_id", resumeID),
			zap.Error(err),
		)
	}
	respondError(c, err)
}

func parseFreeFlag(c *gin.Context) bool {
	free, _ := strconv.ParseBool(c.DefaultQuery("free", "false"))
	return free
}
