package agents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meneportal/ltm-bridge/agents"
)

func TestRosterLookupIsCaseInsensitive(t *testing.T) {
	roster := agents.DefaultRoster()

	p, ok := roster.Get("MENE")
	require.True(t, ok)
	assert.Equal(t, "mene", p.Name)

	_, ok = roster.Get("unknown")
	assert.False(t, ok)
}

func TestListIsSorted(t *testing.T) {
	roster := agents.NewRoster(
		agents.Profile{Name: "zed"},
		agents.Profile{Name: "abe"},
	)

	list := roster.List()
	require.Len(t, list, 2)
	assert.Equal(t, "abe", list[0].Name)
	assert.Equal(t, "zed", list[1].Name)
}
