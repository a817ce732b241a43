// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingOnce sync.Once

// RegisterBindingRules installs the custom binding rules used by the
// request records in this package on gin's validator engine.
//
// # Description
//
// Registers the "graphid" rule: an identifier must contain at least one
// non-whitespace character. The `required` tag alone accepts strings like
// "   ", which would otherwise reach the validator as a vertex that can
// never be referenced unambiguously.
//
// Call once at service startup, before the router handles requests.
// Subsequent calls are no-ops.
func RegisterBindingRules() {
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Registration only fails for an empty tag name.
		_ = v.RegisterValidation(GraphIDRule, func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}
