// Package plugin implements PluginIntrospection: read-only queries against
// a plugin file on disk, and a default RecordParser that understands the
// Gamebryo/Creation Engine plugin header well enough to answer the two
// questions the core state machine needs (master flag, declared masters).
//
// The spec treats full record parsing as an external collaborator; the core
// depends only on the RecordParser interface below. DefaultRecordParser is
// a minimal, self-contained implementation of that interface so the rest
// of this module is independently testable without a real plugin-format
// library in the loop.
package plugin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// RecordParser is the injectable capability LoadOrder and
// PluginIntrospection depend on for anything that requires looking inside
// a plugin file's binary header, rather than the filesystem's metadata
// about it.
type RecordParser interface {
	// IsMasterFile reports whether the plugin's master-flag bit is set.
	// A file that cannot be parsed as a plugin header is treated as not a
	// master (mirrors the original's catch-and-return-false behavior).
	IsMasterFile(path string) bool
	// DeclaredMasters returns the plugin's declared master filenames, in
	// header order.
	DeclaredMasters(path string) ([]string, error)
	// CanParse reports whether path parses as a well-formed plugin header.
	// IsValid uses this in addition to the extension check.
	CanParse(path string) bool
}

// DefaultRecordParser reads the TES3 (Morrowind) and TES4+ (Oblivion
// onward) record header formats directly.
type DefaultRecordParser struct{}

const (
	masterFlagBit = 0x00000001

	tes3HeaderLen  = 16 // NAME(4) SIZE(4) UNUSED(4) FLAGS(4)
	tes4HeaderLen  = 20 // NAME(4) SIZE(4) FLAGS(4) FORMID(4) VCINFO(4)
	tes3FlagOffset = 12
	tes4FlagOffset = 8
)

type header struct {
	recordType string
	dataSize   uint32
	flags      uint32
	headerLen  int
}

func readHeader(f io.Reader) (header, error) {
	var typ [4]byte
	if _, err := io.ReadFull(f, typ[:]); err != nil {
		return header{}, err
	}

	var h header
	h.recordType = string(typ[:])

	switch h.recordType {
	case "TES3":
		buf := make([]byte, tes3HeaderLen-4)
		if _, err := io.ReadFull(f, buf); err != nil {
			return header{}, err
		}
		h.dataSize = binary.LittleEndian.Uint32(buf[0:4])
		h.flags = binary.LittleEndian.Uint32(buf[tes3FlagOffset-4 : tes3FlagOffset])
		h.headerLen = tes3HeaderLen
	case "TES4":
		buf := make([]byte, tes4HeaderLen-4)
		if _, err := io.ReadFull(f, buf); err != nil {
			return header{}, err
		}
		h.dataSize = binary.LittleEndian.Uint32(buf[0:4])
		h.flags = binary.LittleEndian.Uint32(buf[tes4FlagOffset-4 : tes4FlagOffset])
		h.headerLen = tes4HeaderLen
	default:
		return header{}, fmt.Errorf("not a recognised plugin header: %q", h.recordType)
	}

	return h, nil
}

func (DefaultRecordParser) parse(path string) (header, error) {
	f, err := os.Open(path)
	if err != nil {
		return header{}, err
	}
	defer f.Close()

	return readHeader(bufio.NewReader(f))
}

// IsMasterFile implements RecordParser.
func (p DefaultRecordParser) IsMasterFile(path string) bool {
	h, err := p.parse(path)
	if err != nil {
		return false
	}
	return h.flags&masterFlagBit != 0
}

// CanParse implements RecordParser.
func (p DefaultRecordParser) CanParse(path string) bool {
	_, err := p.parse(path)
	return err == nil
}

// DeclaredMasters implements RecordParser by scanning the top record's
// subrecords for MAST entries, each a null-terminated master filename.
func (p DefaultRecordParser) DeclaredMasters(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	remaining := int64(h.dataSize)
	var masters []string
	for remaining > 0 {
		var sub [6]byte
		n, err := io.ReadFull(r, sub[:])
		remaining -= int64(n)
		if err != nil {
			break
		}

		subType := string(sub[0:4])
		subSize := int64(binary.LittleEndian.Uint16(sub[4:6]))
		if subSize < 0 || subSize > remaining {
			break
		}

		data := make([]byte, subSize)
		if _, err := io.ReadFull(r, data); err != nil {
			break
		}
		remaining -= subSize

		if subType == "MAST" {
			masters = append(masters, string(trimNull(data)))
		}
	}

	return masters, nil
}

func trimNull(b []byte) []byte {
	return []byte(strings.TrimRight(string(b), "\x00"))
}
