package consumer

import (
	"testing"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceKeysForIncludesPrimaryEntity(t *testing.T) {
	event := &types.ChangeEvent{EntityID: "100"}
	keys, err := resourceKeysFor(event)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "ENTITY:100", keys[0].CanonicalString())
}

func TestResourceKeysForIncludesAffectedEntities(t *testing.T) {
	event := &types.ChangeEvent{
		EntityID:          "AAA",
		AffectedEntityIDs: []string{"BBB", "CCC"},
	}
	keys, err := resourceKeysFor(event)
	require.NoError(t, err)
	require.Len(t, keys, 3)

	canonical := make([]string, len(keys))
	for i, k := range keys {
		canonical[i] = k.CanonicalString()
	}
	assert.Contains(t, canonical, "ENTITY:AAA")
	assert.Contains(t, canonical, "ENTITY:BBB")
	assert.Contains(t, canonical, "ENTITY:CCC")
}

func TestResourceKeysForEmptyEntityIDStillProducesAKey(t *testing.T) {
	keys, err := resourceKeysFor(&types.ChangeEvent{EntityID: ""})
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "ENTITY:", keys[0].CanonicalString())
}

func TestNewWiresAnEventBroker(t *testing.T) {
	c := New(Config{Topic: "change-events"}, nil, nil, nil)
	require.NotNil(t, c.Events())
	assert.Equal(t, 0, c.Events().SubscriberCount())
}
