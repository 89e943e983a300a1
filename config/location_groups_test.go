package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocationGroups_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.json")

	groups, err := LoadLocationGroups(path)
	require.NoError(t, err)

	assert.Len(t, groups.List(), len(DefaultLocationGroups))
	assert.Contains(t, groups.Expand("greater cairo"), "new cairo")
}

func TestLocationGroups_UpsertPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "groups.json")

	groups, err := LoadLocationGroups(path)
	require.NoError(t, err)

	require.NoError(t, groups.Upsert(LocationGroup{Name: "Red Sea", Cities: []string{"Hurghada", "El Gouna"}}))
	require.NoError(t, groups.Upsert(LocationGroup{Name: "red  sea", Cities: []string{"Hurghada", "Safaga"}}))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := LoadLocationGroups(path)
	require.NoError(t, err)

	group := reloaded.Get("Red Sea")
	require.NotNil(t, group)
	assert.Equal(t, []string{"Hurghada", "Safaga"}, group.Cities)
	assert.ElementsMatch(t, []string{"hurghada", "safaga"}, reloaded.Expand("RED SEA"))
}

func TestLocationGroups_Delete(t *testing.T) {
	groups := NewLocationGroups(LocationGroup{Name: "Delta", Cities: []string{"Mansoura", "Tanta"}})

	assert.Equal(t, []string{"mansoura", "tanta"}, groups.Expand("Delta"))

	require.NoError(t, groups.Delete("delta"))
	assert.Nil(t, groups.Expand("Delta"))
	assert.ErrorIs(t, groups.Delete("Delta"), ErrLocationGroupNotFound)
}

func TestLocationGroups_ExpandUnknownAndNil(t *testing.T) {
	groups := NewLocationGroups(DefaultLocationGroups...)
	assert.Nil(t, groups.Expand("Cairo"))

	var missing *LocationGroups
	assert.Nil(t, missing.Expand("Greater Cairo"))
}

func TestLocationGroups_ListReturnsCopies(t *testing.T) {
	groups := NewLocationGroups(LocationGroup{Name: "Delta", Cities: []string{"Mansoura"}})

	listed := groups.List()
	listed[0].Cities[0] = "Changed"

	assert.Equal(t, []string{"mansoura"}, groups.Expand("Delta"))
	assert.Equal(t, "Mansoura", groups.Get("Delta").Cities[0])
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.HTTPPort)
	assert.Equal(t, 10, cfg.Matching.DefaultLimit)
	assert.Equal(t, 2, cfg.RecurrenceProcessing.WorkerCount)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}
