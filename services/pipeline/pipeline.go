// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline provides the pipeline validation service for
// AleutianFlow.
//
// This package contains the main service type that coordinates HTTP
// routing, the graph validator, CORS configuration for the visual
// editor, and observability infrastructure.
//
// # Usage
//
//	cfg := pipeline.Config{Port: 12250}
//	svc, err := pipeline.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianFlow/services/pipeline/datatypes"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/graph"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/middleware"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/observability"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/routes"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the pipeline validation service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// # Limitations
	//
	//   - Should not be used to modify routes after construction
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds pipeline service configuration options.
//
// All fields are optional; zero values receive defaults from New().
type Config struct {
	// Port is the HTTP server port. Default: 12250
	Port int

	// FrontendOrigins lists the editor origins allowed by CORS.
	// Empty disables CORS headers. "*" allows any origin.
	FrontendOrigins []string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// "none" disables tracing. Default: "aleutian-otel-collector:4317"
	OTelEndpoint string

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string

	// MaxNodes caps declared nodes per submission. Default: graph.DefaultMaxNodes
	MaxNodes int

	// MaxEdges caps edges per submission. Default: graph.DefaultMaxEdges
	MaxEdges int

	// EnableMetrics enables the Prometheus /metrics endpoint.
	// Default: true
	EnableMetrics bool
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// Thread-safe after construction. All fields are read-only after New()
// returns; the CORS origin list in particular is process-wide
// configuration initialized once, never mutated per request.
type service struct {
	config        Config
	router        *gin.Engine
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new pipeline Service with the given configuration.
//
// # Description
//
// New initializes all service components:
//  1. Applies default configuration for missing values
//  2. Registers custom binding rules on the gin validator engine
//  3. Initializes OpenTelemetry tracing (unless disabled)
//  4. Initializes Prometheus metrics
//  5. Sets up HTTP routes and middleware
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: Ready-to-run pipeline service
//   - error: Non-nil if initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	datatypes.RegisterBindingRules()

	if s.config.OTelEndpoint != "none" {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	if s.config.EnableMetrics {
		observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for pipeline validation")
	}

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting pipeline server",
		"port", s.config.Port,
		"frontend_origins", s.config.FrontendOrigins,
	)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12250
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	if cfg.MaxNodes == 0 {
		cfg.MaxNodes = graph.DefaultMaxNodes
	}
	if cfg.MaxEdges == 0 {
		cfg.MaxEdges = graph.DefaultMaxEdges
	}
	// EnableMetrics defaults to true (zero value is false, so we need explicit check)
	cfg.EnableMetrics = true

	return cfg
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up an OTLP trace exporter sending spans to the configured
// collector over an insecure gRPC connection (appropriate for internal
// networks).
//
// # Outputs
//
//   - func(context.Context): Cleanup function to call on shutdown
//   - error: Non-nil if tracer setup fails
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("pipeline-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with middleware and routes.
//
// Recovery is customized so an unforeseen panic still produces the wire
// error shape with a generic detail, never a stack trace.
func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("Recovered from panic in handler", "panic", recovered)
		c.AbortWithStatusJSON(500, datatypes.ErrorResponse{Detail: "Internal server error"})
	}))
	s.router.Use(otelgin.Middleware("pipeline-service"))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS(s.config.FrontendOrigins))

	routes.SetupRoutes(s.router, graph.Limits{
		MaxNodes: s.config.MaxNodes,
		MaxEdges: s.config.MaxEdges,
	})
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
