package plugin_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/mod-tools/loadorder/internal/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTES4 assembles a minimal valid TES4-style plugin header (as used by
// Oblivion onward) with the given master flag and MAST subrecords.
func buildTES4(t *testing.T, masterFlag bool, masters []string) []byte {
	t.Helper()

	var data []byte
	for _, m := range masters {
		name := append([]byte(m), 0)
		sub := make([]byte, 6+len(name))
		copy(sub[0:4], "MAST")
		binary.LittleEndian.PutUint16(sub[4:6], uint16(len(name)))
		copy(sub[6:], name)
		data = append(data, sub...)
	}

	var flags uint32
	if masterFlag {
		flags = 0x00000001
	}

	header := make([]byte, 20)
	copy(header[0:4], "TES4")
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(data)))
	binary.LittleEndian.PutUint32(header[8:12], flags)
	// formID, VC info left zero

	return append(header, data...)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestDefaultRecordParser_IsMasterFile(t *testing.T) {
	dir := t.TempDir()
	masterPath := writeFile(t, dir, "Master.esm", buildTES4(t, true, nil))
	pluginPath := writeFile(t, dir, "Plugin.esp", buildTES4(t, false, nil))

	p := plugin.DefaultRecordParser{}
	assert.True(t, p.IsMasterFile(masterPath))
	assert.False(t, p.IsMasterFile(pluginPath))
}

func TestDefaultRecordParser_DeclaredMasters(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Child.esp", buildTES4(t, false, []string{"Skyrim.esm", "Update.esm"}))

	p := plugin.DefaultRecordParser{}
	masters, err := p.DeclaredMasters(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Skyrim.esm", "Update.esm"}, masters)
}

func TestDefaultRecordParser_CanParseRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "NotAPlugin.esp", []byte("hello world"))

	p := plugin.DefaultRecordParser{}
	assert.False(t, p.CanParse(path))
	assert.False(t, p.IsMasterFile(path))
}
