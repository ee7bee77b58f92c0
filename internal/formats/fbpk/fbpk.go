//go:build unix

// Package fbpk is a leaf parser plugin for a simplified Android-style FBPK
// partition table: a "FBPK" magic followed by a flat entry table where each
// entry inlines its own partition payload. It is not byte-compatible with
// the real on-device FBPK layout (that structure is normally decoded by a
// kaitai-generated struct, out of scope here) but exercises the same
// unpack-time behavior: skip partition-table header entries, carve every
// real partition into its own child, and label a child "renamed" when its
// partition name repeats an earlier one. Carved children are named by
// offset and length, not by partition name, so no "-1", "-2" suffix appears
// in any child's file name.
package fbpk

import (
	"encoding/binary"
	"fmt"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/parser"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

const magic = "FBPK"

// entryTypeTable marks an entry as a partition-table header rather than a
// real partition; it is skipped during unpack.
const entryTypeTable = 0

type entry struct {
	entryType  uint32
	name       string
	dataOffset int64
	dataLen    int64
}

// Register installs this package's constructor under the FBPK magic.
func Register(reg *registry.Registry) {
	reg.RegisterSignature(parser.Signature{Offset: 0, Pattern: magic}, New)
}

// Parser validates and decodes the flat FBPK entry table starting at
// startOffset.
type Parser struct {
	src         *bytesource.Mapping
	startOffset int64
	parsedSize  int64
	entries     []entry
}

// New satisfies parser.Constructor.
func New(src *bytesource.Mapping, startOffset int64) (unpackdir.Parser, error) {
	return &Parser{src: src, startOffset: startOffset}, nil
}

// ParseFromOffset reads the header and walks the entry table:
//
//	magic[4] version[4] entry_count[4]
//	entry: entry_type[4] name_len[4] name[name_len] data_len[4] data[data_len]
func (p *Parser) ParseFromOffset() error {
	data := p.src.Bytes()
	pos := p.startOffset

	if pos+12 > int64(len(data)) || string(data[pos:pos+4]) != magic {
		return p.fail("missing FBPK magic or truncated header")
	}
	entryCount := binary.LittleEndian.Uint32(data[pos+8 : pos+12])
	pos += 12

	entries := make([]entry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		e, next, err := p.readEntry(data, pos)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		pos = next
	}

	p.entries = entries
	p.parsedSize = pos - p.startOffset
	return nil
}

func (p *Parser) readEntry(data []byte, pos int64) (entry, int64, error) {
	if pos+8 > int64(len(data)) {
		return entry{}, 0, p.fail("truncated entry header")
	}
	entryType := binary.LittleEndian.Uint32(data[pos : pos+4])
	nameLen := int64(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
	pos += 8

	if pos+nameLen > int64(len(data)) {
		return entry{}, 0, p.fail("truncated entry name")
	}
	name := string(data[pos : pos+nameLen])
	pos += nameLen

	if pos+4 > int64(len(data)) {
		return entry{}, 0, p.fail("truncated entry data length")
	}
	dataLen := int64(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if pos+dataLen > int64(len(data)) {
		return entry{}, 0, p.fail("truncated entry data")
	}
	dataOffset := pos
	pos += dataLen

	return entry{entryType: entryType, name: name, dataOffset: dataOffset, dataLen: dataLen}, pos, nil
}

func (p *Parser) fail(reason string) error {
	return scanerr.New(scanerr.KindParseFail, "fbpk", fmt.Errorf("%s", reason))
}

// ParsedSize returns the number of bytes consumed by the header and entry
// table.
func (p *Parser) ParsedSize() int64 { return p.parsedSize }

// Unpack carves every non-table-header entry into its own child file. A
// partition whose name was already reserved gets a pending "renamed" label;
// the suffixed name ReserveName returns is not used, and the child keeps its
// offset/length-based file name.
func (p *Parser) Unpack(ud *unpackdir.Dir) ([]*unpackdir.Dir, error) {
	var children []*unpackdir.Dir

	for _, e := range p.entries {
		if e.entryType == entryTypeTable {
			continue
		}

		child, err := ud.Carve(p.src, unpackdir.Region{Offset: e.dataOffset, Length: e.dataLen})
		if err != nil {
			return nil, err
		}

		if _, renamed := ud.ReserveName(e.name); renamed {
			child.PendingLabels = append(child.PendingLabels, "renamed")
		}

		children = append(children, child)
	}

	return children, nil
}

// WriteInfo labels the claimed region.
func (p *Parser) WriteInfo(ud *unpackdir.Dir) {
	ud.Info["labels"] = []string{"android", "fbpk"}
	ud.Info["metadata"] = map[string]any{"entry_count": len(p.entries)}
	ud.Info["offset"] = p.startOffset
	ud.Info["size"] = p.parsedSize
	ud.Info["parser"] = "fbpk"
}
