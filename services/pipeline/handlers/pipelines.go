// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP handlers for the pipeline
// validation service.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/AleutianFlow/services/pipeline/datatypes"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/graph"
	"github.com/AleutianAI/AleutianFlow/services/pipeline/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Create a new tracer
var pipelineTracer = otel.Tracer("aleutian.pipeline.handlers")

// ParsePipeline validates a submitted pipeline graph.
//
// # Description
//
// Binds the editor's pipeline description, runs the DAG validator, and
// returns the structural verdict. The graph lives only for the duration
// of the request; nothing is persisted.
//
// Status codes:
//   - 200: validation ran; body carries num_nodes/num_edges/is_dag.
//   - 400: malformed body or invalid graph description.
//   - 413: submission exceeds the configured size limits.
//   - 500: unforeseen failure; detail is generic, internals stay in logs.
//
// # Inputs
//
//   - limits: Size limits applied to every submission. Zero values use
//     the graph package defaults.
//
// # Outputs
//
//   - gin.HandlerFunc: Handler for POST /pipelines/parse.
func ParsePipeline(limits graph.Limits) gin.HandlerFunc {
	return func(c *gin.Context) {
		var desc datatypes.PipelineDescription
		if err := c.ShouldBindJSON(&desc); err != nil {
			recordRejection(observability.ErrorCodeBind)
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Detail: "Invalid pipeline description: " + err.Error(),
			})
			return
		}

		_, span := pipelineTracer.Start(c.Request.Context(), "pipeline.validate")
		defer span.End()

		start := time.Now()
		res, err := graph.ValidateWithLimits(desc.GraphNodes(), desc.GraphEdges(), limits)
		elapsed := time.Since(start)

		if err != nil {
			status, code := classifyValidationError(err)
			recordRejection(code)
			span.RecordError(err)

			detail := "Error processing pipeline"
			if code != observability.ErrorCodeInternal {
				// Validation errors are descriptive and safe to show in
				// the editor; internal failures stay generic.
				detail = err.Error()
			} else {
				slog.Error("Pipeline validation failed unexpectedly", "error", err)
			}
			c.JSON(status, datatypes.ErrorResponse{Detail: detail})
			return
		}

		span.SetAttributes(
			attribute.Int("pipeline.num_nodes", res.NodeCount),
			attribute.Int("pipeline.num_edges", res.EdgeCount),
			attribute.Bool("pipeline.is_dag", res.IsDAG),
		)

		if m := observability.DefaultMetrics; m != nil {
			m.RecordRequest("success")
			m.RecordVerdict(res.IsDAG)
			m.ObserveValidation(elapsed.Seconds(), res.NodeCount, res.EdgeCount)
		}

		slog.Info("Validated pipeline",
			"num_nodes", res.NodeCount,
			"num_edges", res.EdgeCount,
			"is_dag", res.IsDAG,
		)
		c.JSON(http.StatusOK, datatypes.ParseResponseFrom(res))
	}
}

// classifyValidationError maps a validator error to an HTTP status and a
// metrics error code.
func classifyValidationError(err error) (int, observability.ErrorCode) {
	switch {
	case errors.Is(err, graph.ErrInvalidGraph):
		return http.StatusBadRequest, observability.ErrorCodeInvalidGraph
	case errors.Is(err, graph.ErrGraphTooLarge):
		return http.StatusRequestEntityTooLarge, observability.ErrorCodeTooLarge
	default:
		return http.StatusInternalServerError, observability.ErrorCodeInternal
	}
}

// recordRejection bumps the request and error counters for a rejected
// request. Metrics may be disabled in tests.
func recordRejection(code observability.ErrorCode) {
	m := observability.DefaultMetrics
	if m == nil {
		return
	}
	status := "invalid"
	if code == observability.ErrorCodeInternal {
		status = "error"
	}
	m.RecordRequest(status)
	m.RecordError(code)
}
