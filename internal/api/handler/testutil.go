// Package handler provides test utilities for HTTP handler testing.
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/api/middleware"
)

// SetupTestRouter creates a Gin router for testing with the owner
// middleware resolving every request to the given owner.
func SetupTestRouter(owner string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Owner(owner))
	return r
}

// CreateTestRequest creates an HTTP request for testing. A non-nil body
// is JSON-encoded.
func CreateTestRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	return req
}

// ServeRequest runs the request through the router and returns the recorder.
func ServeRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
