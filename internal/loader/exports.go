package loader

import (
	"errors"
	"fmt"
)

// ErrExportMissing reports a requested export the payload does not carry.
var ErrExportMissing = errors.New("requested export not found")

// ExtractExports shapes a resolved module payload. With requested names the
// matching subset is returned (one name yields the bare value, several
// yield a name-to-value map). With no names the payload's default export
// wins when present, otherwise the whole payload is returned.
func ExtractExports(payload any, names []string) (any, error) {
	if len(names) == 0 {
		if m, ok := payload.(map[string]any); ok {
			if def, exists := m["default"]; exists {
				return def, nil
			}
		}
		return payload, nil
	}

	m, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: payload has no named exports (%T)", ErrExportMissing, payload)
	}

	if len(names) == 1 {
		v, exists := m[names[0]]
		if !exists {
			return nil, fmt.Errorf("%w: %q", ErrExportMissing, names[0])
		}
		return v, nil
	}

	out := make(map[string]any, len(names))
	for _, name := range names {
		v, exists := m[name]
		if !exists {
			return nil, fmt.Errorf("%w: %q", ErrExportMissing, name)
		}
		out[name] = v
	}
	return out, nil
}
