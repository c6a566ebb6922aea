// Package transcode isolates the UTF-8 <-> Windows-1252 conversion the
// legacy plugins.txt and Morrowind.ini formats need behind a small
// capability, the way the teacher repo isolates record parsing behind the
// linker.Linker interface.
package transcode

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// ToUTF8 decodes a Windows-1252 byte sequence (as read from plugins.txt or
// Morrowind.ini) into a UTF-8 string. Decoding from Windows-1252 cannot
// fail: every byte value maps to some code point, including the C1 control
// range.
func ToUTF8(b []byte) string {
	out, _ := charmap.Windows1252.NewDecoder().Bytes(b)
	return string(out)
}

// FromUTF8 encodes s as Windows-1252. It fails with a wrapped error if s
// contains a character with no Windows-1252 representation; callers should
// treat this as the BAD_FILENAME condition: defer it, keep writing the
// other names, and surface a warning at the end.
func FromUTF8(s string) ([]byte, error) {
	out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%q has no Windows-1252 representation: %w", s, err)
	}
	return out, nil
}
