package activeplugins_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mod-tools/loadorder/internal/activeplugins"
	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pluginBytes(masterFlag bool) []byte {
	var flags uint32
	if masterFlag {
		flags = 1
	}
	header := make([]byte, 20)
	copy(header[0:4], "TES4")
	binary.LittleEndian.PutUint32(header[8:12], flags)
	return header
}

func writePlugin(t *testing.T, dataDir, name string, masterFlag bool) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), pluginBytes(masterFlag), 0644))
}

func skyrimProfile(t *testing.T, root string) domain.GameProfile {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data"), 0755))
	return domain.NewGameProfile(domain.Skyrim, root, root, domain.GameProfileOptions{})
}

func TestLoad_EnsuresImplicitPluginsActive(t *testing.T) {
	root := t.TempDir()
	profile := skyrimProfile(t, root)
	dataDir := filepath.Join(root, "Data")

	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Update.esm", true)
	writePlugin(t, dataDir, "Mod.esp", false)

	require.NoError(t, os.WriteFile(profile.ActivePluginsFile(), []byte("Mod.esp\r\n"), 0644))

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())

	assert.True(t, ap.IsActive(domain.NewPluginIdentity("Skyrim.esm")))
	assert.True(t, ap.IsActive(domain.NewPluginIdentity("Update.esm")))
	assert.True(t, ap.IsActive(domain.NewPluginIdentity("Mod.esp")))
}

func TestLoad_MissingFileStillActivatesImplicitPlugins(t *testing.T) {
	root := t.TempDir()
	profile := skyrimProfile(t, root)
	dataDir := filepath.Join(root, "Data")
	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Update.esm", true)

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())
	assert.Equal(t, 2, ap.Len())
}

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	root := t.TempDir()
	profile := skyrimProfile(t, root)
	dataDir := filepath.Join(root, "Data")

	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Update.esm", true)
	writePlugin(t, dataDir, "Mod.esp", false)

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())
	require.NoError(t, ap.Activate(domain.NewPluginIdentity("Mod.esp")))

	order := []domain.PluginIdentity{
		domain.NewPluginIdentity("Skyrim.esm"),
		domain.NewPluginIdentity("Update.esm"),
		domain.NewPluginIdentity("Mod.esp"),
	}
	require.NoError(t, ap.Save(order))

	second := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, second.Load())
	assert.True(t, second.IsActive(domain.NewPluginIdentity("Mod.esp")))
}

func TestDeactivate_RemovesFromActiveSet(t *testing.T) {
	root := t.TempDir()
	profile := skyrimProfile(t, root)
	dataDir := filepath.Join(root, "Data")
	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Mod.esp", false)

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())
	require.NoError(t, ap.Activate(domain.NewPluginIdentity("Mod.esp")))
	require.NoError(t, ap.Deactivate(domain.NewPluginIdentity("Mod.esp")))
	assert.False(t, ap.IsActive(domain.NewPluginIdentity("Mod.esp")))
}

func tes3Bytes(masterFlag bool) []byte {
	var flags uint32
	if masterFlag {
		flags = 1
	}
	header := make([]byte, 16)
	copy(header[0:4], "TES3")
	binary.LittleEndian.PutUint32(header[12:16], flags)
	return header
}

func TestSave_MorrowindPreservesSurroundingINIContent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data Files"), 0755))
	profile := domain.NewGameProfile(domain.Morrowind, root, root, domain.GameProfileOptions{})
	dataDir := filepath.Join(root, "Data Files")

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "Morrowind.esm"), tes3Bytes(true), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "Mod.esp"), tes3Bytes(false), 0644))

	original := "[General]\nSetting=1\n\n[Game Files]\nGameFile0=Morrowind.esm\n\n[Fonts]\nFont0=bookfont\n"
	require.NoError(t, os.WriteFile(profile.ActivePluginsFile(), []byte(original), 0644))

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())
	require.NoError(t, ap.Activate(domain.NewPluginIdentity("Mod.esp")))

	order := []domain.PluginIdentity{
		domain.NewPluginIdentity("Morrowind.esm"),
		domain.NewPluginIdentity("Mod.esp"),
	}
	require.NoError(t, ap.Save(order))

	written, err := os.ReadFile(profile.ActivePluginsFile())
	require.NoError(t, err)
	assert.Contains(t, string(written), "[General]")
	assert.Contains(t, string(written), "Setting=1")
	assert.Contains(t, string(written), "[Fonts]")
	assert.Contains(t, string(written), "GameFile0=Morrowind.esm")
	assert.Contains(t, string(written), "GameFile1=Mod.esp")
}

func TestIsValid_RejectsDeactivatedImplicitPlugin(t *testing.T) {
	root := t.TempDir()
	profile := skyrimProfile(t, root)
	dataDir := filepath.Join(root, "Data")
	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Update.esm", true)

	ap := activeplugins.New(profile, plugin.DefaultRecordParser{})
	require.NoError(t, ap.Load())
	require.NoError(t, ap.Deactivate(domain.NewPluginIdentity("Update.esm")))

	err := ap.IsValid()
	assert.ErrorIs(t, err, domain.ErrInvalidArgs)
}
