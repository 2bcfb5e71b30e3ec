package types

import "fmt"

// Format tags the packaging convention a cargo artifact was published in.
type Format string

// Supported packaging formats, in no particular order. Priority between
// them is decided per load by the candidate generator.
const (
	// FormatESM is the native-module convention (import/export).
	FormatESM Format = "esm"
	// FormatUMD is the universal-wrapper convention: the artifact assigns
	// its payload to an agreed slot on the ambient global scope.
	FormatUMD Format = "umd"
	// FormatCJS is the legacy-synchronous convention (module.exports).
	FormatCJS Format = "cjs"
)

// AllFormats lists every known format in declaration order.
func AllFormats() []Format {
	return []Format{FormatESM, FormatUMD, FormatCJS}
}

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatESM, FormatUMD, FormatCJS:
		return true
	}
	return false
}

// ParseFormat converts a string to a Format.
// Returns ErrUnknownFormat if s is not a known format tag.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// StrategyTag names the loading strategy that produced a payload. Strategies
// map one-to-one onto formats today, but the tag is recorded separately on
// LoadedCargo so a custom strategy can identify itself.
type StrategyTag string

const (
	StrategyESM StrategyTag = "esm"
	StrategyUMD StrategyTag = "umd"
	StrategyCJS StrategyTag = "cjs"
)
