package types

import "time"

// LoadedCargo is the result of one successful load. Exactly one instance is
// created per (source, cargo) key; it lives in the Navigator's result table
// until an explicit Reset.
type LoadedCargo struct {
	// Payload is the value the format strategy produced: the requested
	// named exports, the default export, or the whole module object.
	Payload any

	Descriptor CargoDescriptor
	Source     SourceInfo
	LoadedAt   time.Time

	// ServedFromCache is true when the result came from the result table
	// rather than a fresh attempt sequence.
	ServedFromCache bool

	FormatUsed   Format
	StrategyUsed StrategyTag
}
