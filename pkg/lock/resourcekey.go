package lock

import (
	"fmt"
	"strings"
)

// ResourceKey is an immutable composite identifier for a lockable logical
// resource: a resource type plus an ordered sequence of components. Two
// keys are equal only if both the type and the full component sequence
// match; a key with the same type but a different component count is never
// equal to another.
type ResourceKey struct {
	resourceType string
	components   []string
}

// NewResourceKey constructs a ResourceKey from a resource type and an
// arbitrary list of components. Non-string components are converted with
// fmt.Sprint, matching the platform's canonical string conversion. A
// resourceType that is empty or all whitespace is rejected.
func NewResourceKey(resourceType string, components ...any) (*ResourceKey, error) {
	if strings.TrimSpace(resourceType) == "" {
		return nil, newError(InvalidArgument, "resourceType must not be empty")
	}

	rendered := make([]string, len(components))
	for i, c := range components {
		if s, ok := c.(string); ok {
			rendered[i] = s
			continue
		}
		rendered[i] = fmt.Sprint(c)
	}

	return &ResourceKey{resourceType: resourceType, components: rendered}, nil
}

// ResourceType returns the key's resource type.
func (k *ResourceKey) ResourceType() string {
	return k.resourceType
}

// Components returns a copy of the key's component sequence; the returned
// slice is safe for the caller to mutate.
func (k *ResourceKey) Components() []string {
	out := make([]string, len(k.components))
	copy(out, k.components)
	return out
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"

func isUnreserved(b byte) bool {
	return strings.IndexByte(unreserved, b) >= 0
}

func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func percentDecode(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", newError(InvalidArgument, "truncated percent-encoding in %q", s)
		}
		var v int
		if _, err := fmt.Sscanf(s[i+1:i+3], "%02X", &v); err != nil {
			return "", newError(InvalidArgument, "invalid percent-encoding in %q", s)
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}

// CanonicalString renders the deterministic wire form of the key:
// resourceType followed by ":"+percent-encoded-component for each
// component. Every byte outside the unreserved set (letters, digits,
// "-_.~") is percent-encoded, including literal ":" inside a component, so
// the encoding is unambiguous to parse.
func (k *ResourceKey) CanonicalString() string {
	var b strings.Builder
	b.WriteString(k.resourceType)
	for _, c := range k.components {
		b.WriteByte(':')
		b.WriteString(percentEncode(c))
	}
	return b.String()
}

// String implements fmt.Stringer as the canonical string form.
func (k *ResourceKey) String() string {
	return k.CanonicalString()
}

// ParseResourceKey reconstructs a ResourceKey from its canonical string
// form. Surrounding whitespace is trimmed; a blank result is rejected.
// parse(k.CanonicalString()) always yields a key equal to k.
func ParseResourceKey(s string) (*ResourceKey, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, newError(InvalidArgument, "cannot parse a blank resource key")
	}

	parts := splitUnescaped(trimmed)
	resourceType := parts[0]
	if resourceType == "" {
		return nil, newError(InvalidArgument, "resource key %q has an empty resourceType", s)
	}

	components := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		decoded, err := percentDecode(p)
		if err != nil {
			return nil, err
		}
		components = append(components, decoded)
	}

	return &ResourceKey{resourceType: resourceType, components: components}, nil
}

// ParseResourceKeyOptional is ParseResourceKey for callers that may hold an
// absent (nil) canonical string rather than an empty one - the Go analogue
// of spec.md's "parse(null) returns absent" rule.
func ParseResourceKeyOptional(s *string) (*ResourceKey, error) {
	if s == nil {
		return nil, nil
	}
	return ParseResourceKey(*s)
}

// splitUnescaped splits on ":" bytes that are not part of a "%3A" escape
// sequence produced by percentEncode.
func splitUnescaped(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Equal reports whether two keys have the same resource type and an
// identical, same-length component sequence.
func (k *ResourceKey) Equal(other *ResourceKey) bool {
	if other == nil {
		return false
	}
	if k.resourceType != other.resourceType {
		return false
	}
	if len(k.components) != len(other.components) {
		return false
	}
	for i := range k.components {
		if k.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

// Compare imposes a total order: resourceType lexicographically, then the
// component sequence element-wise, with a strict prefix sorting before the
// longer sequence it is a prefix of.
func (k *ResourceKey) Compare(other *ResourceKey) int {
	if c := strings.Compare(k.resourceType, other.resourceType); c != 0 {
		return c
	}
	n := len(k.components)
	if len(other.components) < n {
		n = len(other.components)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(k.components[i], other.components[i]); c != 0 {
			return c
		}
	}
	return len(k.components) - len(other.components)
}
