package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// InventoryPath is the well-known path, relative to a source's base
// location, from which the inventory manifest is fetched.
const InventoryPath = "inventory.json"

// Inventory is the manifest a source publishes to describe its cargo.
// It is fetched once per source and then cached with a TTL. Within one
// inventory generation the CargoIndex keys are stable identifiers.
type Inventory struct {
	Source             SourceInfo                 `json:"source"`
	CargoIndex         map[string]CargoDescriptor `json:"cargoIndex"`
	SharedDependencies map[string]string          `json:"sharedDependencies,omitempty"`
	GeneratedAt        time.Time                  `json:"generatedAt"`

	// IntegrityDigest guards against accidental corruption of the manifest
	// in transit or at rest. It is not a cryptographic trust boundary.
	IntegrityDigest string `json:"integrityDigest,omitempty"`
}

// CargoDescriptor describes one loadable bundle. Descriptors are produced by
// build-time tooling and consumed read-only by the engine.
type CargoDescriptor struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Entry         string            `json:"entry"`
	Exports       []string          `json:"exports,omitempty"`
	PackagingHint Format            `json:"format,omitempty"`
	Dependencies  map[string]string `json:"dependencies,omitempty"`
	Metadata      map[string]any    `json:"metadata,omitempty"`
}

// Inventory validation errors.
var (
	ErrManifestSourceName    = errors.New("manifest source.name is required")
	ErrManifestSourceVersion = errors.New("manifest source.version is required")
	ErrManifestSourceURL     = errors.New("manifest source.url is required")
	ErrManifestCargoIndex    = errors.New("manifest cargoIndex must be an object")
	ErrManifestCargoName     = errors.New("cargo entry is missing a name")
	ErrManifestCargoVersion  = errors.New("cargo version is not a semantic version")
	ErrManifestCargoEntry    = errors.New("cargo entry locator is required")
	ErrUnknownFormat         = errors.New("unknown packaging format")
)

// Validate checks the structural requirements on a fetched manifest:
// source identity fields present, a non-nil cargo index, and every cargo
// entry carrying a name, a semantic version, and an entry locator.
func (inv *Inventory) Validate() error {
	if inv.Source.Name == "" {
		return ErrManifestSourceName
	}
	if inv.Source.Version == "" {
		return ErrManifestSourceVersion
	}
	if inv.Source.URL == "" {
		return ErrManifestSourceURL
	}
	if inv.CargoIndex == nil {
		return ErrManifestCargoIndex
	}
	for name, desc := range inv.CargoIndex {
		if desc.Name == "" {
			return fmt.Errorf("%w: index key %q", ErrManifestCargoName, name)
		}
		if desc.Entry == "" {
			return fmt.Errorf("%w: cargo %q", ErrManifestCargoEntry, name)
		}
		if _, err := semver.NewVersion(desc.Version); err != nil {
			return fmt.Errorf("%w: cargo %q has version %q", ErrManifestCargoVersion, name, desc.Version)
		}
		if desc.PackagingHint != "" && !desc.PackagingHint.Valid() {
			return fmt.Errorf("%w: cargo %q declares %q", ErrUnknownFormat, name, desc.PackagingHint)
		}
	}
	return nil
}

// Cargo returns the descriptor for name.
// Returns a CargoNotFoundError when the inventory has no such entry.
func (inv *Inventory) Cargo(name string) (CargoDescriptor, error) {
	desc, ok := inv.CargoIndex[name]
	if !ok {
		return CargoDescriptor{}, &CargoNotFoundError{Cargo: name, Source: inv.Source.Name}
	}
	return desc, nil
}
