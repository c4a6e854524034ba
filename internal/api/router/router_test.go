package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/api/handler"
	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/export/imageout"
	"github.com/resumeforge/resumeforge/internal/export/measure"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/render"
)

type stubExporter struct{}

func (stubExporter) ExportPDF(context.Context, export.Request) (*export.Artifact, error) {
	return &export.Artifact{ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

func (stubExporter) ExportImage(context.Context, export.Request, imageout.Format) (*export.Artifact, error) {
	return &export.Artifact{ContentType: "image/png"}, nil
}

func (stubExporter) MeasureOverflow(context.Context, *model.Resume) (measure.Report, error) {
	return measure.Report{}, nil
}

func setupRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := render.NewRenderer("classic")
	require.NoError(t, err)

	r := gin.New()
	Setup(r, stubExporter{}, renderer, cfg, handler.NewMockStore())
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes(t *testing.T) {
	r := setupRouter(t, config.Default())

	t.Run("health", func(t *testing.T) {
		w := get(r, "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})

	t.Run("templates public", func(t *testing.T) {
		w := get(r, "/api/v1/templates")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "classic")
	})

	t.Run("meta", func(t *testing.T) {
		w := get(r, "/api/v1/admin/meta")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ResumeForge")
	})

	t.Run("resumes served with default owner", func(t *testing.T) {
		w := get(r, "/api/v1/resumes")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := get(r, "/api/v1/nope")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOwnerRequiredWithoutDefault(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DefaultOwner = ""
	r := setupRouter(t, cfg)

	w := get(r, "/api/v1/resumes")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("GET", "/api/v1/resumes", nil)
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
