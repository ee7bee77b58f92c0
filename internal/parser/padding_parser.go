//go:build unix

package parser

import (
	"fmt"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

// PaddingParser claims a whole file already established by the padding
// detector to be entirely 0x00 or entirely 0xFF.
type PaddingParser struct {
	src         *bytesource.Mapping
	startOffset int64
	parsedSize  int64
}

// NewPaddingParser binds a PaddingParser to src at startOffset. Callers only
// construct this after padding.IsPadding has already confirmed the file.
func NewPaddingParser(src *bytesource.Mapping, startOffset int64) *PaddingParser {
	return &PaddingParser{src: src, startOffset: startOffset}
}

// ParseFromOffset claims the remainder of the mapping from startOffset.
func (p *PaddingParser) ParseFromOffset() error {
	remaining := p.src.Size() - p.startOffset
	if remaining <= 0 {
		return scanerr.New(scanerr.KindParseFail, "padding", fmt.Errorf("nothing left to claim at offset %d", p.startOffset))
	}
	p.parsedSize = remaining
	return nil
}

// ParsedSize returns the number of bytes claimed, equal to the file size.
func (p *PaddingParser) ParsedSize() int64 { return p.parsedSize }

// Unpack is a no-op: padding has no children.
func (p *PaddingParser) Unpack(ud *unpackdir.Dir) ([]*unpackdir.Dir, error) { return nil, nil }

// WriteInfo labels the claimed region "padding".
func (p *PaddingParser) WriteInfo(ud *unpackdir.Dir) {
	ud.Info["labels"] = []string{"padding"}
	ud.Info["metadata"] = map[string]any{}
	ud.Info["offset"] = p.startOffset
	ud.Info["size"] = p.parsedSize
	ud.Info["parser"] = "padding"
}
