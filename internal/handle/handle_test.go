package handle_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mod-tools/loadorder/internal/domain"
	"github.com/mod-tools/loadorder/internal/handle"
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

func newHandle(t *testing.T) (*handle.GameHandle, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Data"), 0755))
	profile := domain.NewGameProfile(domain.Skyrim, root, root, domain.GameProfileOptions{})
	dataDir := filepath.Join(root, "Data")

	writePlugin(t, dataDir, "Skyrim.esm", true)
	writePlugin(t, dataDir, "Update.esm", true)
	writePlugin(t, dataDir, "Mod.esp", false)

	return handle.New(profile, plugin.DefaultRecordParser{}), dataDir
}

func TestGetLoadOrder_ReflectsFolderScan(t *testing.T) {
	h, _ := newHandle(t)
	order, err := h.GetLoadOrder()
	require.NoError(t, err)

	var names []string
	for _, p := range order {
		names = append(names, p.Name())
	}
	assert.Contains(t, names, "Skyrim.esm")
	assert.Contains(t, names, "Mod.esp")
	assert.Equal(t, "Skyrim.esm", names[0])
}

func TestActivateDeactivate_RoundTrip(t *testing.T) {
	h, _ := newHandle(t)
	_, err := h.GetLoadOrder()
	require.NoError(t, err)

	mod := domain.NewPluginIdentity("Mod.esp")
	require.NoError(t, h.Activate(mod))

	active, err := h.IsActive(mod)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, h.Deactivate(mod))
	active, err = h.IsActive(mod)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSetPluginPosition_MovesWithinMasterPartition(t *testing.T) {
	h, _ := newHandle(t)
	_, err := h.GetLoadOrder()
	require.NoError(t, err)

	update := domain.NewPluginIdentity("Update.esm")
	require.NoError(t, h.SetPluginPosition(update, 1))

	pos, err := h.GetPluginPosition(update)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestSetActivePlugins_RejectsOverCeiling(t *testing.T) {
	h, _ := newHandle(t)
	_, err := h.GetLoadOrder()
	require.NoError(t, err)

	over := make([]domain.PluginIdentity, 256)
	for i := range over {
		over[i] = domain.NewPluginIdentity("Nonexistent.esp")
	}
	err = h.SetActivePlugins(over)
	assert.ErrorIs(t, err, domain.ErrInvalidArgs)
}

func TestGetPluginPosition_AbsentReturnsZero(t *testing.T) {
	h, _ := newHandle(t)
	_, err := h.GetLoadOrder()
	require.NoError(t, err)

	pos, err := h.GetPluginPosition(domain.NewPluginIdentity("Ghost.esp"))
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}
