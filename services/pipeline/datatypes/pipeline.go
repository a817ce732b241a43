// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the wire-level request and response shapes
// for the pipeline validation service.
//
// The visual editor sends richer node objects than the validator needs
// (type, position, display data). Each record here names only the fields
// validation depends on; encoding/json drops everything else during
// binding, which keeps the contract forward compatible with new editor
// payload fields.
package datatypes

import "github.com/AleutianAI/AleutianFlow/services/pipeline/graph"

// GraphIDRule is the name of the custom binding rule applied to node and
// edge identifier fields. The rule rejects identifiers that are blank
// after trimming whitespace; it is registered on the gin binding engine
// at service startup.
const GraphIDRule = "graphid"

// PipelineNode is one declared node as submitted by the editor.
//
// Extra attributes on the JSON object (type, position, data) are ignored.
type PipelineNode struct {
	// ID uniquely identifies the node within the submission.
	ID string `json:"id" binding:"required,graphid"`
}

// PipelineEdge is one directed connection as submitted by the editor.
//
// Extra attributes (handles, markers, styling) are ignored.
type PipelineEdge struct {
	// Source is the identifier of the node the edge leaves.
	Source string `json:"source" binding:"required,graphid"`

	// Target is the identifier of the node the edge enters.
	Target string `json:"target" binding:"required,graphid"`
}

// PipelineDescription is the request body for POST /pipelines/parse.
//
// Both lists must be present; either may be empty. An edge may reference
// an identifier that does not appear in Nodes — the validator treats such
// identifiers as implicit vertices rather than rejecting the request.
type PipelineDescription struct {
	Nodes []PipelineNode `json:"nodes" binding:"required,dive"`
	Edges []PipelineEdge `json:"edges" binding:"required,dive"`
}

// GraphNodes converts the declared nodes to validator input.
func (p *PipelineDescription) GraphNodes() []graph.Node {
	nodes := make([]graph.Node, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = graph.Node{ID: n.ID}
	}
	return nodes
}

// GraphEdges converts the submitted edges to validator input.
func (p *PipelineDescription) GraphEdges() []graph.Edge {
	edges := make([]graph.Edge, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = graph.Edge{Source: e.Source, Target: e.Target}
	}
	return edges
}

// ParseResponse is the success body for POST /pipelines/parse.
type ParseResponse struct {
	// NumNodes is the count of explicitly declared nodes.
	NumNodes int `json:"num_nodes"`

	// NumEdges is the count of submitted edge entries, duplicates included.
	NumEdges int `json:"num_edges"`

	// IsDAG reports whether the pipeline is free of directed cycles.
	IsDAG bool `json:"is_dag"`

	// CycleNodes lists the vertices stuck on or behind a cycle, sorted.
	// Omitted when the pipeline is a DAG.
	CycleNodes []string `json:"cycle_nodes,omitempty"`
}

// ParseResponseFrom maps a validation result onto the wire shape.
func ParseResponseFrom(res graph.Result) ParseResponse {
	return ParseResponse{
		NumNodes:   res.NodeCount,
		NumEdges:   res.EdgeCount,
		IsDAG:      res.IsDAG,
		CycleNodes: res.CycleNodes,
	}
}

// ErrorResponse is the failure body for every endpoint.
//
// Detail carries a human-readable message safe to show in the editor.
// Internal error state is never serialized here.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
