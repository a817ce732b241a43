// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the pipeline service.
//
// The visual editor runs in a browser on a different origin than this
// service, so every response needs CORS headers. The allowed origin list
// is fixed at startup from configuration and never mutated afterwards;
// the middleware only reads it.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// CORS
// =============================================================================

// CORS returns middleware that answers cross-origin requests from the
// configured editor origins.
//
// # Description
//
// When the request's Origin header matches an allowed origin, the
// response carries the matching Access-Control-Allow-* headers. Preflight
// OPTIONS requests are answered with 204 and do not reach the handlers.
// Requests from unlisted origins pass through without CORS headers; the
// browser enforces the denial.
//
// The wildcard "*" allows any origin. Credentials are only advertised
// for exact-match origins, never for the wildcard.
//
// # Inputs
//
//   - allowedOrigins: Origins the editor may call from. Read-only after
//     startup. An empty list disables CORS headers entirely.
//
// # Outputs
//
//   - gin.HandlerFunc: The middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Vary", "Origin")
			} else if wildcard {
				c.Header("Access-Control-Allow-Origin", "*")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
