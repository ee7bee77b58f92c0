//go:build unix

// Package parser defines the uniform contract every format handler — real
// plugin or synthetic placeholder — satisfies, and provides the three
// built-in synthetic parsers the scan pipeline relies on: Padding,
// Synthesizing, and Extracting.
package parser

import (
	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

// Signature pairs a literal byte pattern with the offset within a candidate
// region at which the pattern is expected. Offset == 0 means the pattern
// must occur at the start of the candidate region.
type Signature struct {
	Offset  int64
	Pattern string
}

// Constructor builds a Parser instance bound to a byte source starting at
// startOffset. An error returned directly from a Constructor call (a
// RegistryError in spec terms, e.g. a malformed plugin configuration) is
// handled identically to a ParseFromOffset failure: the candidate is
// discarded and the scanner moves on.
type Constructor func(src *bytesource.Mapping, startOffset int64) (unpackdir.Parser, error)
