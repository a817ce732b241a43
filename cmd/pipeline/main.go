// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command pipeline starts the AleutianFlow pipeline validation HTTP server.
//
// This is the main entry point for the containerized pipeline service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - PIPELINE_PORT: HTTP server port (default: 12250)
//   - ALEUTIAN_FLOW_FRONTEND_URL: comma-separated editor origins for CORS
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector, "none" disables
//     tracing (default: aleutian-otel-collector:4317)
//   - GIN_MODE: Gin framework mode (debug, release, test)
//
// # Usage
//
//	# Build
//	go build -o pipeline ./cmd/pipeline
//
//	# Run
//	ALEUTIAN_FLOW_FRONTEND_URL=http://localhost:3000 ./pipeline
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianFlow/services/pipeline"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := pipeline.Config{
		Port:            getEnvInt("PIPELINE_PORT", 12250),
		FrontendOrigins: splitOrigins(os.Getenv("ALEUTIAN_FLOW_FRONTEND_URL")),
		OTelEndpoint:    getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
		GinMode:         os.Getenv("GIN_MODE"),
	}

	slog.Info("Starting pipeline service",
		"port", cfg.Port,
		"frontend_origins", cfg.FrontendOrigins,
	)

	svc, err := pipeline.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create pipeline service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Pipeline service error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// splitOrigins parses a comma-separated origin list, dropping blanks.
func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
