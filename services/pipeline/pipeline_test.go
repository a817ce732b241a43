// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianFlow/services/pipeline/graph"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// newTestService builds a service with tracing disabled.
func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	cfg.OTelEndpoint = "none"
	cfg.GinMode = gin.TestMode
	svc, err := New(cfg)
	require.NoError(t, err, "New should succeed with test config")
	return svc
}

// =============================================================================
// Config Tests
// =============================================================================

// TestApplyConfigDefaults_AllDefaults verifies default values are applied.
func TestApplyConfigDefaults_AllDefaults(t *testing.T) {
	// Arrange
	cfg := Config{}

	// Act
	result := applyConfigDefaults(cfg)

	// Assert
	assert.Equal(t, 12250, result.Port, "default port should be 12250")
	assert.Equal(t, "aleutian-otel-collector:4317", result.OTelEndpoint,
		"default OTel endpoint should be aleutian-otel-collector:4317")
	assert.Equal(t, graph.DefaultMaxNodes, result.MaxNodes,
		"default node limit should come from the graph package")
	assert.Equal(t, graph.DefaultMaxEdges, result.MaxEdges,
		"default edge limit should come from the graph package")
	assert.True(t, result.EnableMetrics, "metrics should be enabled by default")
}

// TestApplyConfigDefaults_PreservesCustomValues verifies custom values are
// not overwritten.
func TestApplyConfigDefaults_PreservesCustomValues(t *testing.T) {
	// Arrange
	cfg := Config{
		Port:            8080,
		OTelEndpoint:    "custom-collector:4317",
		FrontendOrigins: []string{"http://localhost:3000"},
		MaxNodes:        500,
		MaxEdges:        900,
	}

	// Act
	result := applyConfigDefaults(cfg)

	// Assert
	assert.Equal(t, 8080, result.Port, "custom port should be preserved")
	assert.Equal(t, "custom-collector:4317", result.OTelEndpoint,
		"custom OTel endpoint should be preserved")
	assert.Equal(t, []string{"http://localhost:3000"}, result.FrontendOrigins,
		"custom frontend origins should be preserved")
	assert.Equal(t, 500, result.MaxNodes, "custom node limit should be preserved")
	assert.Equal(t, 900, result.MaxEdges, "custom edge limit should be preserved")
}

// =============================================================================
// End-to-End Router Tests
// =============================================================================

func TestNew_ParseEndToEnd(t *testing.T) {
	svc := newTestService(t, Config{
		FrontendOrigins: []string{"http://localhost:3000"},
	})

	body := `{"nodes": [{"id": "1"}, {"id": "2"}],
	          "edges": [{"source": "1", "target": "2"}]}`
	req := httptest.NewRequest(http.MethodPost, "/pipelines/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), `"is_dag":true`)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"),
		"CORS header should reflect the configured editor origin")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"),
		"every response should carry a request id")
}

func TestNew_ConfiguredLimitsReachTheValidator(t *testing.T) {
	svc := newTestService(t, Config{MaxNodes: 1})

	body := `{"nodes": [{"id": "1"}, {"id": "2"}], "edges": []}`
	req := httptest.NewRequest(http.MethodPost, "/pipelines/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, "body: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), "detail")
}

func TestNew_HealthRoute(t *testing.T) {
	svc := newTestService(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	svc.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
