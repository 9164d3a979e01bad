// Package diag is a small diagnostic sink that can be redirected or
// silenced (SPEC_FULL.md §1 "Logging / diagnostics"). cmd/morphgo-dictgen
// writes its progress and failures through it; the dictionary loaders in
// internal/ruledict and internal/lang do not write to it and report problems
// only through their returned errors.
package diag

import (
	"io"
	"log"
	"os"
)

// Logger is the minimal interface morphgo depends on for diagnostics.
type Logger interface {
	Printf(format string, args ...any)
}

// Default writes to stderr with a "morphgo: " prefix, the way the teacher's
// own command-line tooling logs by default.
var Default Logger = log.New(os.Stderr, "morphgo: ", log.LstdFlags)

// Discard silences all diagnostics.
var Discard Logger = log.New(io.Discard, "", 0)
