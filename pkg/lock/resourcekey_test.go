package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceKeyRejectsEmptyType(t *testing.T) {
	_, err := NewResourceKey("")
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))

	_, err = NewResourceKey("   ")
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))
}

func TestNewResourceKeyConvertsNonStringComponents(t *testing.T) {
	k, err := NewResourceKey("ENTITY", 100, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "true"}, k.Components())
}

func TestCanonicalStringRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		resType    string
		components []any
	}{
		{"simple", "ENTITY", []any{"100"}},
		{"no components", "ENTITY", nil},
		{"colon in component", "ENTITY", []any{"a:b"}},
		{"percent in component", "ENTITY", []any{"100%"}},
		{"unicode", "ENTITY", []any{"héllo wörld"}},
		{"multiple components", "REL", []any{"100", "200", "FRIEND"}},
		{"empty component", "ENTITY", []any{""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := NewResourceKey(tc.resType, tc.components...)
			require.NoError(t, err)

			parsed, err := ParseResourceKey(k.CanonicalString())
			require.NoError(t, err)
			assert.True(t, k.Equal(parsed), "round trip: %q -> %q", k, parsed)
		})
	}
}

func TestParseResourceKeyRejectsBlank(t *testing.T) {
	_, err := ParseResourceKey("")
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))

	_, err = ParseResourceKey("   ")
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidArgument))
}

func TestParseResourceKeyOptionalNil(t *testing.T) {
	k, err := ParseResourceKeyOptional(nil)
	require.NoError(t, err)
	assert.Nil(t, k)
}

func TestParseResourceKeyTrimsWhitespace(t *testing.T) {
	k, err := ParseResourceKey("  ENTITY:100  ")
	require.NoError(t, err)
	assert.Equal(t, "ENTITY", k.ResourceType())
	assert.Equal(t, []string{"100"}, k.Components())
}

func TestEqualDiffersOnComponentCount(t *testing.T) {
	a, _ := NewResourceKey("ENTITY", "100")
	b, _ := NewResourceKey("ENTITY", "100", "200")
	assert.False(t, a.Equal(b))
}

func TestCompareOrdersByTypeThenComponents(t *testing.T) {
	a, _ := NewResourceKey("AAA")
	b, _ := NewResourceKey("BBB")
	assert.True(t, a.Compare(b) < 0)
	assert.True(t, b.Compare(a) > 0)

	c, _ := NewResourceKey("ENTITY", "100")
	d, _ := NewResourceKey("ENTITY", "200")
	assert.True(t, c.Compare(d) < 0)

	prefix, _ := NewResourceKey("ENTITY", "100")
	longer, _ := NewResourceKey("ENTITY", "100", "200")
	assert.True(t, prefix.Compare(longer) < 0)
	assert.True(t, longer.Compare(prefix) > 0)
}

func TestCompareIsDeterministicAcrossSorts(t *testing.T) {
	keys := make([]*ResourceKey, 0)
	for _, c := range []string{"CCC", "AAA", "BBB", "AAB"} {
		k, _ := NewResourceKey("ENTITY", c)
		keys = append(keys, k)
	}

	canonical := func(ks []*ResourceKey) []string {
		out := make([]string, len(ks))
		for i, k := range ks {
			out[i] = k.CanonicalString()
		}
		return out
	}

	first := sortCopy(keys)
	second := sortCopy(keys)
	assert.Equal(t, canonical(first), canonical(second))
}

func sortCopy(keys []*ResourceKey) []*ResourceKey {
	return sortUniqueKeys(keys)
}
