//go:build unix

// Package gif is a leaf parser plugin for the GIF87a/GIF89a image format.
// It validates the block structure from the signature to the trailer byte
// without decoding pixel data, treating the logical-screen descriptor and
// blocks as an opaque byte-driven grammar the way a kaitai-generated struct
// would, rather than re-implementing image decoding.
package gif

import (
	"fmt"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/parser"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

const (
	blockExtension       = 0x21
	blockImageDescriptor = 0x2c
	blockTrailer         = 0x3b
)

// Register installs this package's constructor under both GIF magic
// signatures.
func Register(reg *registry.Registry) {
	reg.RegisterSignature(parser.Signature{Offset: 0, Pattern: "GIF87a"}, New)
	reg.RegisterSignature(parser.Signature{Offset: 0, Pattern: "GIF89a"}, New)
}

// Parser validates a GIF's block structure starting at startOffset.
type Parser struct {
	src         *bytesource.Mapping
	startOffset int64
	parsedSize  int64
}

// New satisfies parser.Constructor.
func New(src *bytesource.Mapping, startOffset int64) (unpackdir.Parser, error) {
	return &Parser{src: src, startOffset: startOffset}, nil
}

// ParseFromOffset walks the header, logical screen descriptor, optional
// global color table, and every block up to and including the trailer.
func (p *Parser) ParseFromOffset() error {
	data := p.src.Bytes()
	pos := p.startOffset

	if !hasPrefix(data, pos, "GIF87a") && !hasPrefix(data, pos, "GIF89a") {
		return p.fail("missing GIF signature")
	}
	pos += 6

	var err error
	pos, err = p.readLogicalScreenDescriptor(data, pos)
	if err != nil {
		return err
	}

	for {
		if pos >= int64(len(data)) {
			return p.fail("truncated before trailer")
		}
		block := data[pos]
		pos++

		switch block {
		case blockTrailer:
			p.parsedSize = pos - p.startOffset
			return nil
		case blockExtension:
			if pos >= int64(len(data)) {
				return p.fail("truncated extension")
			}
			pos++ // extension label
			pos, err = p.skipSubBlocks(data, pos)
			if err != nil {
				return err
			}
		case blockImageDescriptor:
			pos, err = p.readImageDescriptor(data, pos)
			if err != nil {
				return err
			}
		default:
			return p.fail(fmt.Sprintf("unrecognised block introducer 0x%02x at %d", block, pos-1))
		}
	}
}

func (p *Parser) readLogicalScreenDescriptor(data []byte, pos int64) (int64, error) {
	if pos+7 > int64(len(data)) {
		return 0, p.fail("truncated logical screen descriptor")
	}
	packed := data[pos+4]
	pos += 7

	if packed&0x80 != 0 {
		tableSize := int64(3 << ((packed & 0x07) + 1))
		if pos+tableSize > int64(len(data)) {
			return 0, p.fail("truncated global color table")
		}
		pos += tableSize
	}

	return pos, nil
}

func (p *Parser) readImageDescriptor(data []byte, pos int64) (int64, error) {
	if pos+9 > int64(len(data)) {
		return 0, p.fail("truncated image descriptor")
	}
	packed := data[pos+8]
	pos += 9

	if packed&0x80 != 0 {
		tableSize := int64(3 << ((packed & 0x07) + 1))
		if pos+tableSize > int64(len(data)) {
			return 0, p.fail("truncated local color table")
		}
		pos += tableSize
	}

	if pos >= int64(len(data)) {
		return 0, p.fail("truncated image data")
	}
	pos++ // LZW minimum code size

	return p.skipSubBlocks(data, pos)
}

// skipSubBlocks advances past a size-prefixed sub-block sequence terminated
// by a zero-length block, the shape shared by extensions and image data.
func (p *Parser) skipSubBlocks(data []byte, pos int64) (int64, error) {
	for {
		if pos >= int64(len(data)) {
			return 0, p.fail("truncated sub-block sequence")
		}
		size := int64(data[pos])
		pos++
		if size == 0 {
			return pos, nil
		}
		if pos+size > int64(len(data)) {
			return 0, p.fail("truncated sub-block")
		}
		pos += size
	}
}

func (p *Parser) fail(reason string) error {
	return scanerr.New(scanerr.KindParseFail, "gif", fmt.Errorf("%s", reason))
}

// ParsedSize returns the number of bytes consumed, from the signature
// through the trailer byte.
func (p *Parser) ParsedSize() int64 { return p.parsedSize }

// Unpack carves the claimed region into its own child file unless the GIF
// already spans the whole input (offset 0 and whole-file claim), matching
// the original parser's rule for when a GIF embedded in something larger
// needs to be split out versus left attached to the parent.
func (p *Parser) Unpack(ud *unpackdir.Dir) ([]*unpackdir.Dir, error) {
	if p.startOffset == 0 && p.parsedSize == p.src.Size() {
		return nil, nil
	}

	child, err := ud.Carve(p.src, unpackdir.Region{Offset: p.startOffset, Length: p.parsedSize})
	if err != nil {
		return nil, err
	}
	return []*unpackdir.Dir{child}, nil
}

// WriteInfo labels the claimed region. A carved-out GIF picks up the
// "unpacked" label; a whole-file GIF gets no labels beyond the format tag,
// mirroring the original parser's behavior.
func (p *Parser) WriteInfo(ud *unpackdir.Dir) {
	labels := []string{"gif", "graphics"}
	if !(p.startOffset == 0 && p.parsedSize == p.src.Size()) {
		labels = append(labels, "unpacked")
	}
	ud.Info["labels"] = labels
	ud.Info["metadata"] = map[string]any{}
	ud.Info["offset"] = p.startOffset
	ud.Info["size"] = p.parsedSize
	ud.Info["parser"] = "gif"
}

func hasPrefix(data []byte, pos int64, prefix string) bool {
	if pos < 0 || pos+int64(len(prefix)) > int64(len(data)) {
		return false
	}
	return string(data[pos:pos+int64(len(prefix))]) == prefix
}
