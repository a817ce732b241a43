// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph implements structural validation of pipeline graphs.
//
// # Description
//
// The visual editor submits a pipeline as a set of node identifiers and a
// set of directed edges. This package decides whether that description
// forms a Directed Acyclic Graph using Kahn's algorithm (repeatedly remove
// zero-indegree vertices; the graph is acyclic iff every vertex is removed)
// and reports structural metrics alongside the verdict.
//
// The validator is deliberately shape-only: it does not execute pipelines,
// does not check whether node types are compatible, and treats any editor
// metadata beyond the identifier as opaque.
//
// # Thread Safety
//
// Validation is a pure computation over its inputs. There is no package
// state, so any number of validations may run concurrently.
package graph

// Default limits applied when Limits fields are zero.
const (
	// DefaultMaxNodes is the maximum number of declared nodes accepted
	// in a single validation call.
	DefaultMaxNodes = 100_000

	// DefaultMaxEdges is the maximum number of edges accepted in a
	// single validation call.
	DefaultMaxEdges = 1_000_000
)

// Node is a declared pipeline vertex.
//
// Only the identifier participates in validation. The editor attaches
// type, position, and display metadata to its nodes; none of that is
// visible at this layer.
type Node struct {
	// ID uniquely identifies the node within one submitted pipeline.
	// Opaque to the validator beyond equality comparison.
	ID string
}

// Edge is a directed connection between two vertices.
//
// Self-loops (Source == Target) are accepted as input and classified as
// cycles. Parallel edges between the same ordered pair are accepted and
// each occurrence contributes to the target's indegree independently.
type Edge struct {
	// Source is the identifier of the vertex the edge leaves.
	Source string

	// Target is the identifier of the vertex the edge enters.
	Target string
}

// Limits bounds the size of a single validation call.
//
// Zero-valued fields fall back to the package defaults. Limits exist to
// keep a single request from holding the adjacency and indegree maps for
// an arbitrarily large submission.
type Limits struct {
	// MaxNodes caps the number of declared nodes. Default: DefaultMaxNodes.
	MaxNodes int

	// MaxEdges caps the number of edges. Default: DefaultMaxEdges.
	MaxEdges int
}

// applyLimitDefaults fills zero-valued fields with package defaults.
func applyLimitDefaults(l Limits) Limits {
	if l.MaxNodes == 0 {
		l.MaxNodes = DefaultMaxNodes
	}
	if l.MaxEdges == 0 {
		l.MaxEdges = DefaultMaxEdges
	}
	return l
}

// Result is the outcome of validating one pipeline description.
//
// # Fields
//
//   - NodeCount: number of explicitly declared nodes.
//   - EdgeCount: number of edge entries submitted, duplicates included.
//   - IsDAG: whether the graph contains no directed cycle.
//   - CycleNodes: vertices participating in or downstream of a cycle,
//     sorted lexicographically. Nil when IsDAG is true.
//
// NodeCount counts only declared nodes. Vertices that appear exclusively
// as an edge endpoint (the editor may submit inconsistent references) are
// still considered during cycle detection but are not counted here.
type Result struct {
	NodeCount  int
	EdgeCount  int
	IsDAG      bool
	CycleNodes []string
}
