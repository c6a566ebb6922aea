package profileconfig_test

import (
	"path/filepath"
	"testing"

	"github.com/mod-tools/loadorder/internal/storage/profileconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsEmptyDocument(t *testing.T) {
	doc, err := profileconfig.Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, doc.Games)
}

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	doc := &profileconfig.Document{
		Games: map[string]profileconfig.GameEntry{
			"skyrim": {
				DataPath: "/games/skyrim",
				Overrides: profileconfig.Overrides{
					ImplicitPlugins: []string{"Skyrim.esm", "Update.esm", "Dawnguard.esm"},
				},
			},
		},
	}
	require.NoError(t, doc.Save(dir))

	loaded, err := profileconfig.Load(dir)
	require.NoError(t, err)
	require.Contains(t, loaded.Games, "skyrim")
	assert.Equal(t, "/games/skyrim", loaded.Games["skyrim"].DataPath)
	assert.Equal(t, []string{"Skyrim.esm", "Update.esm", "Dawnguard.esm"}, loaded.Games["skyrim"].Overrides.ImplicitPlugins)
}

func TestProfile_BuildsGameProfileFromEntry(t *testing.T) {
	dir := t.TempDir()
	doc := &profileconfig.Document{
		Games: map[string]profileconfig.GameEntry{
			"skyrim": {DataPath: filepath.Join(dir, "install")},
		},
	}

	profile, ok := doc.Profile("skyrim")
	require.True(t, ok)
	assert.Equal(t, "Skyrim.esm", profile.MasterFile())
}

func TestProfile_UnknownGameReturnsFalse(t *testing.T) {
	doc := &profileconfig.Document{Games: map[string]profileconfig.GameEntry{}}
	_, ok := doc.Profile("nope")
	assert.False(t, ok)
}

func TestParseConfigDir_RejectsRelativePath(t *testing.T) {
	_, err := profileconfig.ParseConfigDir("relative/path")
	assert.Error(t, err)
}

func TestParseConfigDir_AllowsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist-yet")
	cleaned, err := profileconfig.ParseConfigDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cleaned)
}
