// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// Validation Entry Points
// =============================================================================

// Validate checks whether the submitted pipeline forms a DAG using the
// package default limits.
//
// # Description
//
// Runs Kahn's topological sweep over the union of declared node
// identifiers and every identifier appearing as an edge endpoint. The
// graph is acyclic iff the sweep removes every vertex in that union.
// Comparing against the full vertex union (rather than the declared node
// count) keeps dangling edge references from distorting the verdict.
//
// The result does not depend on the order of nodes or edges.
//
// # Inputs
//
//   - nodes: Declared node identifiers. May be empty.
//   - edges: Directed edges. May reference identifiers not present in
//     nodes; such identifiers become implicit vertices.
//
// # Outputs
//
//   - Result: Counts, DAG verdict, and cycle membership. See Result.
//   - error: ErrInvalidGraph (wrapped with detail) for blank identifiers,
//     missing edge endpoints, or duplicate declared node identifiers;
//     ErrGraphTooLarge when the submission exceeds the default limits.
//
// # Examples
//
//	res, err := graph.Validate(
//	    []graph.Node{{ID: "input-1"}, {ID: "llm-1"}},
//	    []graph.Edge{{Source: "input-1", Target: "llm-1"}},
//	)
//	// res.NodeCount == 2, res.EdgeCount == 1, res.IsDAG == true
//
// # Limitations
//
//   - Shape-only: node type compatibility is not checked.
//
// # Assumptions
//
//   - Identifiers are already decoded strings; wire-level concerns
//     (non-string identifiers, absent JSON keys) are rejected by the
//     transport layer before reaching this function.
func Validate(nodes []Node, edges []Edge) (Result, error) {
	return ValidateWithLimits(nodes, edges, Limits{})
}

// ValidateWithLimits is Validate with caller-supplied size limits.
// Zero-valued limit fields fall back to the package defaults.
func ValidateWithLimits(nodes []Node, edges []Edge, limits Limits) (Result, error) {
	limits = applyLimitDefaults(limits)

	if len(nodes) > limits.MaxNodes {
		return Result{}, fmt.Errorf("%w: %d nodes exceeds maximum of %d",
			ErrGraphTooLarge, len(nodes), limits.MaxNodes)
	}
	if len(edges) > limits.MaxEdges {
		return Result{}, fmt.Errorf("%w: %d edges exceeds maximum of %d",
			ErrGraphTooLarge, len(edges), limits.MaxEdges)
	}

	declared, err := collectDeclared(nodes)
	if err != nil {
		return Result{}, err
	}

	// Indegree over the union of declared nodes and every edge endpoint.
	// Declared nodes seed the map so isolated vertices are swept too.
	indegree := make(map[string]int, len(declared)+len(edges))
	for id := range declared {
		indegree[id] = 0
	}

	adjacency := make(map[string][]string, len(declared))
	for i, e := range edges {
		if err := checkEdge(i, e); err != nil {
			return Result{}, err
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		indegree[e.Target]++
		if _, ok := indegree[e.Source]; !ok {
			indegree[e.Source] = 0
		}
	}

	res := Result{
		NodeCount: len(declared),
		EdgeCount: len(edges),
	}
	res.IsDAG, res.CycleNodes = kahnSweep(adjacency, indegree)
	return res, nil
}

// =============================================================================
// Internals
// =============================================================================

// collectDeclared validates declared node identifiers and returns them as
// a set. Duplicate identifiers are rejected: the editor renders each node
// distinctly, so a duplicate is an inconsistency on its side, not two
// names for one vertex.
func collectDeclared(nodes []Node) (map[string]struct{}, error) {
	declared := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if strings.TrimSpace(n.ID) == "" {
			return nil, fmt.Errorf("%w: node %d has a blank identifier", ErrInvalidGraph, i)
		}
		if _, dup := declared[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node identifier %q", ErrInvalidGraph, n.ID)
		}
		declared[n.ID] = struct{}{}
	}
	return declared, nil
}

// checkEdge rejects edges with a blank endpoint. i is the position of the
// edge in the submission, used only for the error detail.
func checkEdge(i int, e Edge) error {
	if strings.TrimSpace(e.Source) == "" {
		return fmt.Errorf("%w: edge %d is missing a source identifier", ErrInvalidGraph, i)
	}
	if strings.TrimSpace(e.Target) == "" {
		return fmt.Errorf("%w: edge %d is missing a target identifier", ErrInvalidGraph, i)
	}
	return nil
}

// kahnSweep runs Kahn's algorithm over the prepared adjacency and
// indegree maps. It returns the DAG verdict and, when cyclic, the sorted
// identifiers of every vertex the sweep could not remove. A self-loop
// vertex never reaches indegree zero, so it is reported like any other
// cycle participant.
//
// The indegree map is consumed.
func kahnSweep(adjacency map[string][]string, indegree map[string]int) (bool, []string) {
	queue := make([]string, 0, len(indegree))
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		visited++
		for _, neighbor := range adjacency[current] {
			indegree[neighbor]--
			if indegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if visited == len(indegree) {
		return true, nil
	}

	// Everything still holding positive indegree sits on or behind a
	// cycle. Sorted so the verdict is deterministic across map order.
	stuck := make([]string, 0, len(indegree)-visited)
	for id, deg := range indegree {
		if deg > 0 {
			stuck = append(stuck, id)
		}
	}
	sort.Strings(stuck)
	return false, stuck
}
