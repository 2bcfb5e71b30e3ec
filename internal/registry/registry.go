// Package registry maintains the process-wide table of resolved cargo
// payloads under a two-level namespace: registry[sourceAlias][cargoName].
//
// The namespaces are sealed: once an alias table exists it can never be
// replaced or deleted through this API, so references handed to earlier
// callers stay valid. The innermost slot stays updatable so a reload of the
// same cargo can replace its payload (hot update) without the namespace
// being hijacked. The Navigator is the only writer.
package registry

import "sync"

// bundleTable is the sealed per-alias table of cargo payloads.
type bundleTable struct {
	mu      sync.RWMutex
	bundles map[string]any
}

// Registry is the sealed two-level binding table. The zero value is not
// usable; use NewRegistry or the process-wide Global instance.
type Registry struct {
	mu      sync.RWMutex
	aliases map[string]*bundleTable
}

// NewRegistry creates an empty registry. Engine instances share Global()
// by default; tests create their own.
func NewRegistry() *Registry {
	return &Registry{aliases: make(map[string]*bundleTable)}
}

// global is the process-wide registry shared by every Navigator that is
// not given its own.
var global = NewRegistry()

// Global returns the process-wide registry.
func Global() *Registry { return global }

// Bind stores payload under (alias, cargo), creating the sealed alias
// table on first write. Rebinding an existing key replaces the payload in
// place; the surrounding tables are never replaced.
func (r *Registry) Bind(alias, cargo string, payload any) {
	r.mu.Lock()
	table, ok := r.aliases[alias]
	if !ok {
		table = &bundleTable{bundles: make(map[string]any)}
		r.aliases[alias] = table
	}
	r.mu.Unlock()

	table.mu.Lock()
	table.bundles[cargo] = payload
	table.mu.Unlock()
}

// Lookup returns the payload bound under (alias, cargo).
func (r *Registry) Lookup(alias, cargo string) (any, bool) {
	r.mu.RLock()
	table, ok := r.aliases[alias]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	table.mu.RLock()
	defer table.mu.RUnlock()
	payload, ok := table.bundles[cargo]
	return payload, ok
}

// Bundles returns the cargo names bound under alias, in no particular order.
func (r *Registry) Bundles(alias string) []string {
	r.mu.RLock()
	table, ok := r.aliases[alias]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	table.mu.RLock()
	defer table.mu.RUnlock()
	names := make([]string, 0, len(table.bundles))
	for name := range table.bundles {
		names = append(names, name)
	}
	return names
}

// Aliases returns the registered alias names, in no particular order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	return names
}
