package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_UniqueIDsAndCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 16)

	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Category)
	}

	all[0].Title = "mutated"
	fresh, ok := Lookup(all[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Brand Film", fresh.Title, "All must hand out a copy")
}

func TestLookup(t *testing.T) {
	svc, ok := Lookup("product-demo")
	require.True(t, ok)
	assert.Equal(t, "Product Demo Video", svc.Title)
	assert.Equal(t, "Product", svc.Category)

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)
	assert.True(t, Exists("social-promo"))
	assert.False(t, Exists(""))
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{
		"All", "Branding", "Advertising", "Corporate", "Product", "Events",
		"Animation", "Social Proof", "Social", "Production",
	}, Categories())
}

func TestFilter(t *testing.T) {
	assert.Len(t, Filter(""), 16)
	assert.Len(t, Filter(AllCategories), 16)

	events := Filter("Events")
	require.Len(t, events, 2)
	assert.Equal(t, "event-coverage", events[0].ID)
	assert.Equal(t, "live-streaming", events[1].ID)

	assert.Empty(t, Filter("Nope"))
	assert.True(t, IsCategory("Social Proof"))
	assert.False(t, IsCategory("social"))
}
