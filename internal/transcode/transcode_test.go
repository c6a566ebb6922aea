package transcode_test

import (
	"testing"

	"github.com/mod-tools/loadorder/internal/transcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripASCII(t *testing.T) {
	b, err := transcode.FromUTF8("Mod.esp")
	require.NoError(t, err)
	assert.Equal(t, "Mod.esp", transcode.ToUTF8(b))
}

func TestToUTF8DecodesLatin1Extended(t *testing.T) {
	// 0xE9 in Windows-1252 is 'é'.
	got := transcode.ToUTF8([]byte{'C', 'a', 'f', 0xE9, '.', 'e', 's', 'p'})
	assert.Equal(t, "Café.esp", got)
}

func TestFromUTF8FailsOnUnrepresentableRune(t *testing.T) {
	_, err := transcode.FromUTF8("忍者.esp")
	assert.Error(t, err)
}
