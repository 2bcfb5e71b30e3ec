package types

import (
	"fmt"
	"time"
)

// Machine-readable error codes carried by the typed errors below.
const (
	CodeSourceNotFound       = "SOURCE_NOT_FOUND"
	CodeCargoNotFound        = "CARGO_NOT_FOUND"
	CodeNetwork              = "NETWORK_ERROR"
	CodeLoadTimeout          = "LOAD_TIMEOUT"
	CodeInvalidManifest      = "INVALID_MANIFEST"
	CodeCache                = "CACHE_ERROR"
	CodeVersionMismatch      = "VERSION_MISMATCH"
	CodeDependencyResolution = "DEPENDENCY_RESOLUTION"
)

// Coded is implemented by every typed error in this package.
type Coded interface {
	error
	ErrorCode() string
}

// SourceNotFoundError reports that a source's inventory could not be
// resolved at its primary location or any fallback.
type SourceNotFoundError struct {
	Source string // alias or location of the source
	Cause  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %q not found: %v", e.Source, e.Cause)
}
func (e *SourceNotFoundError) Unwrap() error     { return e.Cause }
func (e *SourceNotFoundError) ErrorCode() string { return CodeSourceNotFound }

// CargoNotFoundError reports that an inventory has no entry for the
// requested cargo name.
type CargoNotFoundError struct {
	Cargo  string
	Source string
}

func (e *CargoNotFoundError) Error() string {
	return fmt.Sprintf("cargo %q not found in source %q", e.Cargo, e.Source)
}
func (e *CargoNotFoundError) ErrorCode() string { return CodeCargoNotFound }

// NetworkError wraps a transport failure and records the attempted location.
type NetworkError struct {
	URL    string
	Status int // HTTP status when the response arrived, 0 otherwise
	Cause  error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}
func (e *NetworkError) Unwrap() error     { return e.Cause }
func (e *NetworkError) ErrorCode() string { return CodeNetwork }

// LoadTimeoutError reports that the caller stopped waiting for an operation.
// The underlying operation is not cancelled and may still complete.
type LoadTimeoutError struct {
	Op      string
	Timeout time.Duration
}

func (e *LoadTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Timeout)
}
func (e *LoadTimeoutError) ErrorCode() string { return CodeLoadTimeout }

// InvalidManifestError reports a manifest that fetched but failed
// validation or integrity verification.
type InvalidManifestError struct {
	URL    string // document location
	Reason error
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid manifest at %s: %v", e.URL, e.Reason)
}
func (e *InvalidManifestError) Unwrap() error     { return e.Reason }
func (e *InvalidManifestError) ErrorCode() string { return CodeInvalidManifest }

// CacheError wraps a store backend I/O failure with the operation name.
type CacheError struct {
	Op    string // get, set, has, delete, clear, size, clean
	Key   string
	Cause error
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("cache %s: %v", e.Op, e.Cause)
}
func (e *CacheError) Unwrap() error     { return e.Cause }
func (e *CacheError) ErrorCode() string { return CodeCache }

// VersionMismatchError reports a source whose declared version does not
// satisfy the caller's constraint.
type VersionMismatchError struct {
	Source   string
	Required string
	Found    string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("source %q version %s does not satisfy %s", e.Source, e.Found, e.Required)
}
func (e *VersionMismatchError) ErrorCode() string { return CodeVersionMismatch }

// DependencyResolutionError reports a cargo dependency that cannot be
// satisfied by the source's shared dependency ranges.
type DependencyResolutionError struct {
	Cargo      string
	Dependency string
	Required   string
	Available  string // shared range, empty when the dependency is absent
}

func (e *DependencyResolutionError) Error() string {
	if e.Available == "" {
		return fmt.Sprintf("cargo %q requires %s@%s which the source does not share", e.Cargo, e.Dependency, e.Required)
	}
	return fmt.Sprintf("cargo %q requires %s@%s but the source shares %s", e.Cargo, e.Dependency, e.Required, e.Available)
}
func (e *DependencyResolutionError) ErrorCode() string { return CodeDependencyResolution }
