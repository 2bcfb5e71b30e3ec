package navigator

import (
	"context"
	"errors"
	"net/url"

	"github.com/Masterminds/semver/v3"

	"github.com/expozr/navigator/internal/checksum"
	"github.com/expozr/navigator/pkg/types"
)

// inventoryKeyPrefix namespaces inventory entries inside the cache store.
const inventoryKeyPrefix = "inventory:"

// GetInventory resolves the source's inventory manifest, serving it from
// the cache store within the TTL window. Cache read failures degrade to a
// miss; cache write failures surface so callers can detect persistence
// problems.
func (n *Navigator) GetInventory(ctx context.Context, source string) (*types.Inventory, error) {
	ref, err := n.resolveSource(source)
	if err != nil {
		return nil, err
	}
	return n.inventoryFor(ctx, ref)
}

func (n *Navigator) inventoryFor(ctx context.Context, ref types.SourceReference) (*types.Inventory, error) {
	alias := ref.EffectiveAlias()
	key := inventoryKeyPrefix + alias

	cached, ok, err := n.store.Get(ctx, key)
	if err != nil {
		// Read-path cache failures must never become load failures.
		n.log.Warn().Str("key", key).Err(err).Msg("inventory cache read failed, treating as miss")
		ok = false
	}
	if ok {
		inv, err := types.DecodeValue[types.Inventory](cached)
		if err == nil {
			n.bus.Emit(types.Event{Name: types.EventCacheHit, Source: alias, Key: key})
			return inv, nil
		}
		n.log.Warn().Str("key", key).Err(err).Msg("cached inventory is unreadable, refetching")
	}
	n.bus.Emit(types.Event{Name: types.EventCacheMiss, Source: alias, Key: key})

	inv, err := n.fetchInventory(ctx, ref)
	if err != nil {
		return nil, err
	}

	cfg := n.config()
	if err := n.store.Set(ctx, key, inv, cfg.InventoryTTL); err != nil {
		return nil, err
	}

	n.bus.Emit(types.Event{Name: types.EventSourceLoaded, Source: alias})
	return inv, nil
}

// fetchInventory fetches and validates the manifest from the primary
// location, falling back to FallbackLocation when the primary fails.
// Exhaustion of both surfaces as a SourceNotFoundError.
func (n *Navigator) fetchInventory(ctx context.Context, ref types.SourceReference) (*types.Inventory, error) {
	locations := []string{ref.Location}
	if ref.FallbackLocation != "" {
		locations = append(locations, ref.FallbackLocation)
	}

	var lastErr error
	for _, loc := range locations {
		inv, err := n.fetchInventoryAt(ctx, loc, ref)
		if err == nil {
			return inv, nil
		}
		lastErr = err
		n.log.Warn().Str("location", loc).Err(err).Msg("inventory resolution failed")
	}

	var invalid *types.InvalidManifestError
	if errors.As(lastErr, &invalid) {
		return nil, lastErr
	}
	return nil, &types.SourceNotFoundError{Source: ref.EffectiveAlias(), Cause: lastErr}
}

func (n *Navigator) fetchInventoryAt(ctx context.Context, location string, ref types.SourceReference) (*types.Inventory, error) {
	base, err := url.Parse(location)
	if err != nil {
		return nil, types.ErrSourceLocationInvalid
	}
	manifestURL := base.JoinPath(types.InventoryPath).String()

	var inv types.Inventory
	if err := n.fetcher.JSON(ctx, manifestURL, &inv); err != nil {
		return nil, err
	}

	if err := inv.Validate(); err != nil {
		return nil, &types.InvalidManifestError{URL: manifestURL, Reason: err}
	}
	if inv.IntegrityDigest != "" && !verifyDigest(&inv) {
		return nil, &types.InvalidManifestError{URL: manifestURL, Reason: errors.New("integrity digest mismatch")}
	}
	if err := checkVersionConstraint(ref, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// verifyDigest checks the manifest's integrity digest, which is computed
// over the manifest with the digest field itself blanked.
func verifyDigest(inv *types.Inventory) bool {
	stripped := *inv
	stripped.IntegrityDigest = ""
	return checksum.Verify(&stripped, inv.IntegrityDigest)
}

// GenerateDigest computes the integrity digest for a manifest, ignoring
// any digest already present. Build tooling calls this when emitting an
// inventory; the engine uses the same computation to verify.
func GenerateDigest(inv *types.Inventory) (string, error) {
	stripped := *inv
	stripped.IntegrityDigest = ""
	return checksum.Generate(&stripped)
}

// checkVersionConstraint enforces the caller's version range against the
// source's declared version.
func checkVersionConstraint(ref types.SourceReference, inv *types.Inventory) error {
	if ref.VersionConstraint == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(ref.VersionConstraint)
	if err != nil {
		return &types.VersionMismatchError{
			Source:   ref.EffectiveAlias(),
			Required: ref.VersionConstraint,
			Found:    inv.Source.Version,
		}
	}
	version, err := semver.NewVersion(inv.Source.Version)
	if err != nil || !constraint.Check(version) {
		return &types.VersionMismatchError{
			Source:   ref.EffectiveAlias(),
			Required: ref.VersionConstraint,
			Found:    inv.Source.Version,
		}
	}
	return nil
}

// checkDependencies verifies a descriptor's declared dependencies against
// the source's shared dependency ranges: every dependency must be shared,
// and an exactly-versioned requirement must satisfy the shared range.
// Range-against-range requirements are accepted on name match alone.
func checkDependencies(desc types.CargoDescriptor, inv *types.Inventory) error {
	for dep, required := range desc.Dependencies {
		shared, ok := inv.SharedDependencies[dep]
		if !ok {
			return &types.DependencyResolutionError{
				Cargo:      desc.Name,
				Dependency: dep,
				Required:   required,
			}
		}
		version, err := semver.NewVersion(required)
		if err != nil {
			continue
		}
		constraint, err := semver.NewConstraint(shared)
		if err != nil {
			continue
		}
		if !constraint.Check(version) {
			return &types.DependencyResolutionError{
				Cargo:      desc.Name,
				Dependency: dep,
				Required:   required,
				Available:  shared,
			}
		}
	}
	return nil
}
