package types

import (
	"errors"
	"net/url"
	"strings"
)

// SourceReference identifies a publisher of cargo. It is created from caller
// configuration when a Navigator is constructed or updated, and is immutable
// once a load has resolved against it.
type SourceReference struct {
	// Location is the base URL under which the source publishes its
	// inventory and artifacts.
	Location string `json:"location" yaml:"location"`

	// VersionConstraint, when set, is a semantic-version range the source's
	// declared version must satisfy (e.g. "^2.1.0").
	VersionConstraint string `json:"versionConstraint,omitempty" yaml:"version_constraint,omitempty"`

	// Alias names the source in the registry namespace. When empty, an
	// alias is derived from the location with EffectiveAlias.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// FallbackLocation is tried for inventory resolution when the primary
	// location fails.
	FallbackLocation string `json:"fallbackLocation,omitempty" yaml:"fallback_location,omitempty"`
}

// SourceInfo is the source's self-description carried in its inventory.
type SourceInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
}

// Source reference validation errors.
var (
	ErrSourceLocationEmpty   = errors.New("source location must not be empty")
	ErrSourceLocationInvalid = errors.New("source location is not a valid URL")
)

// Validate checks that the reference can be resolved at all.
func (r SourceReference) Validate() error {
	if r.Location == "" {
		return ErrSourceLocationEmpty
	}
	if _, err := url.Parse(r.Location); err != nil {
		return ErrSourceLocationInvalid
	}
	return nil
}

// EffectiveAlias returns the explicit alias when set, otherwise an alias
// derived from the location: the URL host joined with its path, with path
// separators folded to dashes ("cdn.example.com/widgets" -> "cdn.example.com-widgets").
func (r SourceReference) EffectiveAlias() string {
	if r.Alias != "" {
		return r.Alias
	}
	u, err := url.Parse(r.Location)
	if err != nil || u.Host == "" {
		return strings.Trim(r.Location, "/")
	}
	alias := u.Host
	if p := strings.Trim(u.Path, "/"); p != "" {
		alias += "-" + strings.ReplaceAll(p, "/", "-")
	}
	return alias
}
