// Package registration wires the built-in provider factories into the
// registry via their init functions.
package registration

import (
	// Blank imports trigger factory registration.
	_ "github.com/coursekit/promogen/internal/provider/anthropic"
	_ "github.com/coursekit/promogen/internal/provider/openai"
)

// RegisterBuiltins is a no-op entry point that exists so callers have an
// explicit line marking where built-in providers come from.
func RegisterBuiltins() {}
