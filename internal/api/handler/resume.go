package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/idgen"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// ResumeHandler handles resume CRUD HTTP requests
type ResumeHandler struct {
	store    store.Store
	renderer render.Renderer
}

// NewResumeHandler creates a new resume handler
func NewResumeHandler(s store.Store, r render.Renderer) *ResumeHandler {
	return &ResumeHandler{store: s, renderer: r}
}

// ResumeRequest represents the request body for creating or updating a resume
type ResumeRequest struct {
	Title      string         `json:"title" binding:"required"`
	TemplateID string         `json:"template_id"`
	Content    *model.Content `json:"content"`
}

// CreateResume handles POST /api/v1/resumes
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	templateID := req.TemplateID
	if templateID == "" {
		templateID = "classic"
	}
	if !h.knownTemplate(templateID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeTemplateNotFound,
			"message": "Unknown template: " + templateID,
		})
		return
	}

	resume := &model.Resume{
		ID:         idgen.NewResumeID(),
		OwnerID:    ownerID(c),
		Title:      req.Title,
		TemplateID: templateID,
	}
	if req.Content != nil {
		if err := resume.SetContent(req.Content); err != nil {
			respondError(c, errors.Wrap(errors.ErrCodeValidation, "Invalid resume content", err))
			return
		}
	}

	if err := h.store.Resume().Create(resume); err != nil {
		logger.Error("Failed to create resume",
			zap.String("owner_id", resume.OwnerID),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to create resume", err))
		return
	}

	c.JSON(http.StatusCreated, resume)
}

// ListResumes handles GET /api/v1/resumes
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	page, pageSize := parsePagination(c)

	resumes, total, err := h.store.Resume().ListByOwner(ownerID(c), page, pageSize)
	if err != nil {
		logger.Error("Failed to list resumes", zap.Error(err))
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to list resumes", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resumes,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetResume handles GET /api/v1/resumes/:id
func (h *ResumeHandler) GetResume(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resume)
}

// UpdateResume handles PUT /api/v1/resumes/:id
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}

	var req ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	resume.Title = req.Title
	if req.TemplateID != "" {
		if !h.knownTemplate(req.TemplateID) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    errors.ErrCodeTemplateNotFound,
				"message": "Unknown template: " + req.TemplateID,
			})
			return
		}
		resume.TemplateID = req.TemplateID
	}
	if req.Content != nil {
		if err := resume.SetContent(req.Content); err != nil {
			respondError(c, errors.Wrap(errors.ErrCodeValidation, "Invalid resume content", err))
			return
		}
	}

	if err := h.store.Resume().Save(resume); err != nil {
		logger.Error("Failed to update resume",
			zap.String("resume_id", resume.ID),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to update resume", err))
		return
	}

	c.JSON(http.StatusOK, resume)
}

// DeleteResume handles DELETE /api/v1/resumes/:id
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	resume, ok := h.fetch(c)
	if !ok {
		return
	}

	if err := h.store.Resume().Delete(resume.ID); err != nil {
		logger.Error("Failed to delete resume",
			zap.String("resume_id", resume.ID),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to delete resume", err))
		return
	}

	c.Status(http.StatusNoContent)
}

// fetch loads the resume for the path id scoped to the request owner.
// A resume belonging to a different owner reads as not found.
func (h *ResumeHandler) fetch(c *gin.Context) (*model.Resume, bool) {
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
		logger.Error("Failed to fetch resume",
			zap.String("resume_id", id),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to fetch resume", err))
		return nil, false
	}
	return resume, true
}

func (h *ResumeHandler) knownTemplate(id string) bool {
	for _, t := range h.renderer.Templates() {
		if t == id {
			return true
		}
	}
	return false
}
