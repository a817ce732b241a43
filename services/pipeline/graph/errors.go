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

import "errors"

// Sentinel errors for pipeline graph validation.
//
// Validation failures are always one of these sentinels wrapped with a
// position-specific detail, so callers can classify with errors.Is and
// still surface a descriptive message. A failed validation never returns
// a partial Result.
var (
	// ErrInvalidGraph indicates a structurally malformed pipeline
	// description: a blank node identifier, an edge missing one of its
	// endpoints, or a duplicate declared node identifier.
	ErrInvalidGraph = errors.New("invalid pipeline graph description")

	// ErrGraphTooLarge indicates the submission exceeds the configured
	// node or edge limits.
	ErrGraphTooLarge = errors.New("pipeline graph exceeds size limits")
)
