//go:build unix

package parser

import "github.com/standardbeagle/corescan/internal/unpackdir"

// ExtractingParser is attached to a parent whose body has been decomposed
// into the given region list, enumerating the decomposition. The regions
// must be pairwise non-overlapping and ordered by ascending offset; the
// scanners that build parts are responsible for that invariant, not this
// type.
type ExtractingParser struct {
	parts []unpackdir.Region
}

// NewExtractingParser builds an ExtractingParser over parts.
func NewExtractingParser(parts []unpackdir.Region) *ExtractingParser {
	return &ExtractingParser{parts: parts}
}

// ParseFromOffset always succeeds: the decomposition was already computed
// by the scanner that constructed this parser.
func (p *ExtractingParser) ParseFromOffset() error { return nil }

// ParsedSize returns the sum of the parts' lengths.
func (p *ExtractingParser) ParsedSize() int64 {
	var total int64
	for _, part := range p.parts {
		total += part.Length
	}
	return total
}

// Unpack is a no-op: the parts were already carved into children by the
// scanner before this parser was attached.
func (p *ExtractingParser) Unpack(ud *unpackdir.Dir) ([]*unpackdir.Dir, error) { return nil, nil }

// WriteInfo enumerates the decomposition.
func (p *ExtractingParser) WriteInfo(ud *unpackdir.Dir) {
	parts := make([]map[string]int64, len(p.parts))
	for i, part := range p.parts {
		parts[i] = map[string]int64{"offset": part.Offset, "length": part.Length}
	}
	ud.Info["labels"] = []string{"extracted"}
	ud.Info["metadata"] = map[string]any{"parts": parts}
	ud.Info["offset"] = int64(0)
	ud.Info["size"] = p.ParsedSize()
	ud.Info["parser"] = "extracting"
}
