// Package script executes fetched artifacts in an isolated scope and reads
// back their payload. The scope, the output-slot naming, and the filtering
// of incidental globals are pluggable so strategies and tests can swap the
// execution model without touching the loader.
package script

import "context"

// Sandbox runs one artifact per call in a fresh isolated scope.
type Sandbox interface {
	// ExecuteScoped runs source and returns the value the script assigned
	// to the ambient scope. When slot is non-empty that exact binding is
	// read back; otherwise the sandbox diffs the scope before and after
	// execution and returns the single new binding, ignoring incidental
	// globals created by the host's own instrumentation.
	ExecuteScoped(ctx context.Context, source, slot string) (any, error)

	// ExecuteModule runs source as a legacy-synchronous module with
	// module/exports bindings injected and returns module.exports.
	ExecuteModule(ctx context.Context, source string) (any, error)
}

// GlobalFilter reports whether a scope binding created during execution is
// incidental (instrumentation, polyfill plumbing) and must not be mistaken
// for the script's payload.
type GlobalFilter func(name string) bool

// DefaultGlobalFilter ignores the bindings goja-hosted scripts and common
// instrumentation leave behind: double-underscore names (coverage and
// bundler runtimes), scope aliases, and module plumbing.
func DefaultGlobalFilter(name string) bool {
	switch name {
	case "window", "self", "globalThis", "global",
		"module", "exports", "require", "define",
		"regeneratorRuntime":
		return true
	}
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}
