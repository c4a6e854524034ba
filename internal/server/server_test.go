package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/export"
	"github.com/resumeforge/resumeforge/internal/export/imageout"
	"github.com/resumeforge/resumeforge/internal/export/measure"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

func init() {
	logger.Init(logger.Config{
		Level:  "error",
		Format: "text",
	})
}

type nopExporter struct{}

func (nopExporter) ExportPDF(context.Context, export.Request) (*export.Artifact, error) {
	return &export.Artifact{ContentType: "application/pdf"}, nil
}

func (nopExporter) ExportImage(context.Context, export.Request, imageout.Format) (*export.Artifact, error) {
	return &export.Artifact{ContentType: "image/png"}, nil
}

func (nopExporter) MeasureOverflow(context.Context, *model.Resume) (measure.Report, error) {
	return measure.Report{}, nil
}

func newTestServer(t *testing.T) (*Server, func()) {
	t.Helper()
	testStore, cleanup := store.SetupTestDB(t)

	renderer, err := render.NewRenderer("classic")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Server.Host = "localhost"
	srv := New(cfg, nopExporter{}, renderer, testStore)
	return srv, cleanup
}

func TestServerNew(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	require.NotNil(t, srv)
	assert.NotNil(t, srv.router)
	assert.NotNil(t, srv.Router())
}

func TestServerRoutes(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	srv.SetupRoutes()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("templates", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/templates", nil)
		srv.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServerStopWithoutStart(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	assert.NoError(t, srv.Stop())
}
