// Package candidates derives the ordered list of (format, location) pairs
// the loader probes for one cargo.
//
// Ordering precedence, descending: explicit per-call format preference,
// per-call fallback list, the descriptor's packaging hint, the global
// configuration preference, then the environment-capability default
// (native-module-first when the environment supports it, legacy-
// synchronous-first otherwise). Formats the environment does not support
// are filtered out before ordering. The literal declared entry is always
// the final candidate.
package candidates

import (
	"net/url"
	"path"
	"strings"

	"github.com/expozr/navigator/pkg/types"
)

// Candidate is one probe target for the format-ordered loader.
type Candidate struct {
	Format types.Format
	URL    string
}

// Environment reports which packaging formats the current host can load.
type Environment interface {
	Supports(types.Format) bool
}

// StaticEnvironment is an Environment with a fixed capability set.
type StaticEnvironment map[types.Format]bool

// Supports reports whether the environment can load format f.
func (e StaticEnvironment) Supports(f types.Format) bool { return e[f] }

// Generate returns the ordered candidates for desc under base. base is the
// source's resolved location; the descriptor entry may be relative to it or
// an absolute URL of its own.
func Generate(base *url.URL, desc types.CargoDescriptor, opts types.LoadOptions, cfg types.Config, env Environment) []Candidate {
	entryURL := resolveEntry(base, desc.Entry)
	order := formatOrder(desc, opts, cfg, env)

	var out []Candidate
	seen := make(map[string]bool)
	push := func(f types.Format, u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, Candidate{Format: f, URL: u})
	}

	if !opts.NoDiscovery {
		for _, f := range order {
			push(f, variantURL(entryURL, f))
		}
	}

	// The literal declared entry is the final fallback, loaded with the
	// format inferred from its filename or, failing that, the top-ranked
	// supported format.
	literal := inferFormat(desc.Entry, desc.PackagingHint, order)
	if literal != "" && env.Supports(literal) {
		push(literal, entryURL.String())
	}
	return out
}

// formatOrder merges the ordering inputs into a deduplicated priority list
// of environment-supported formats.
func formatOrder(desc types.CargoDescriptor, opts types.LoadOptions, cfg types.Config, env Environment) []types.Format {
	var order []types.Format
	seen := make(map[types.Format]bool)
	add := func(f types.Format) {
		if !f.Valid() || seen[f] || !env.Supports(f) {
			return
		}
		seen[f] = true
		order = append(order, f)
	}

	add(opts.Format)
	for _, f := range opts.FallbackFormats {
		add(f)
	}
	add(desc.PackagingHint)
	add(cfg.DefaultFormat)

	if env.Supports(types.FormatESM) {
		add(types.FormatESM)
		add(types.FormatUMD)
		add(types.FormatCJS)
	} else {
		add(types.FormatCJS)
		add(types.FormatUMD)
		add(types.FormatESM)
	}
	return order
}

// resolveEntry resolves the declared entry against the source location.
// An entry that is itself an absolute URL wins.
func resolveEntry(base *url.URL, entry string) *url.URL {
	if u, err := url.Parse(entry); err == nil && u.IsAbs() {
		return u
	}
	if base == nil {
		return &url.URL{Path: entry}
	}
	return base.JoinPath(entry)
}

// variantURL rewrites the entry filename with the format's conventional
// suffix: math.js -> math.esm.js / math.umd.js / math.cjs.js. An entry that
// already carries the suffix is returned unchanged.
func variantURL(entryURL *url.URL, f types.Format) string {
	dir, file := path.Split(entryURL.Path)
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if ext == "" {
		ext = ".js"
	}

	marker := "." + string(f)
	if strings.HasSuffix(stem, marker) {
		return entryURL.String()
	}

	variant := *entryURL
	variant.Path = dir + stem + marker + ext
	return variant.String()
}

// inferFormat guesses the literal entry's format from its filename, the
// packaging hint, or the top-ranked ordered format.
func inferFormat(entry string, hint types.Format, order []types.Format) types.Format {
	lower := strings.ToLower(entry)
	switch {
	case strings.HasSuffix(lower, ".mjs") || strings.Contains(lower, ".esm."):
		return types.FormatESM
	case strings.HasSuffix(lower, ".cjs") || strings.Contains(lower, ".cjs."):
		return types.FormatCJS
	case strings.Contains(lower, ".umd."):
		return types.FormatUMD
	}
	if hint.Valid() {
		return hint
	}
	if len(order) > 0 {
		return order[0]
	}
	return ""
}
