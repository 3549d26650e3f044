package asset

import (
	"fmt"
	"strings"
)

// Policy selects how resolved assets are retained between calls.
type Policy uint8

const (
	// Uncached persists nothing unless a call passes UseCache(true).
	Uncached Policy = iota

	// Weak keeps a weak reference: the value is reused while something else
	// keeps it alive and resolved again once it has been collected.
	Weak

	// Strong keeps the value alive for the lifetime of the descriptor.
	Strong
)

// DefaultPolicy is the policy of a Library created without WithPolicy.
const DefaultPolicy = Strong

// Valid reports whether p is one of the defined policies.
func (p Policy) Valid() bool {
	return p <= Strong
}

// String returns the lowercase policy name.
func (p Policy) String() string {
	switch p {
	case Uncached:
		return "uncached"
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses a policy name case-insensitively. "none" and "off"
// are accepted as aliases for Uncached.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uncached", "none", "off":
		return Uncached, nil
	case "weak":
		return Weak, nil
	case "strong":
		return Strong, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
