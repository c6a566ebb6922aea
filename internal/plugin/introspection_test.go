package plugin_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfile(dir string) domain.GameProfile {
	return domain.NewGameProfile(domain.Skyrim, dir, dir, domain.GameProfileOptions{})
}

func TestIntrospection_GhostedIdentityResolvesTransparently(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Data"), 0755))
	ghostPath := filepath.Join(dir, "Data", "Mod.esp.ghost")
	require.NoError(t, os.WriteFile(ghostPath, buildTES4(t, false, nil), 0644))

	identity := domain.NewPluginIdentity("Mod.esp.ghost")
	assert.Equal(t, "Mod.esp", identity.Name())

	intro := plugin.New(identity, newTestProfile(dir), plugin.DefaultRecordParser{})
	assert.True(t, intro.Exists())
	assert.True(t, intro.IsGhosted())
	assert.Equal(t, ghostPath, intro.ResolvedPath())
}

func TestIntrospection_UnGhostRenames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Data"), 0755))
	ghostPath := filepath.Join(dir, "Data", "Mod.esp.ghost")
	require.NoError(t, os.WriteFile(ghostPath, buildTES4(t, false, nil), 0644))

	intro := plugin.New(domain.NewPluginIdentity("Mod.esp"), newTestProfile(dir), plugin.DefaultRecordParser{})
	require.NoError(t, intro.UnGhost())

	assert.False(t, intro.IsGhosted())
	assert.True(t, intro.Exists())
	_, err := os.Stat(filepath.Join(dir, "Data", "Mod.esp"))
	assert.NoError(t, err)
}

func TestIntrospection_ModificationTimeRoundTrips(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Data"), 0755))
	path := filepath.Join(dir, "Data", "Mod.esp")
	require.NoError(t, os.WriteFile(path, buildTES4(t, false, nil), 0644))

	intro := plugin.New(domain.NewPluginIdentity("Mod.esp"), newTestProfile(dir), plugin.DefaultRecordParser{})

	want := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, intro.SetModificationTime(want))

	got, err := intro.ModificationTime()
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestIntrospection_IsFalseFlagged(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Data", "Fake.esm"), buildTES4(t, false, nil), 0644))

	intro := plugin.New(domain.NewPluginIdentity("Fake.esm"), newTestProfile(dir), plugin.DefaultRecordParser{})
	assert.True(t, intro.IsFalseFlagged())
}
