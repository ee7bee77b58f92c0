//go:build unix

// Package sigscan implements the signature scanner: it finds every
// occurrence of every registered signature across the whole file, validates
// each resulting candidate in ascending-offset order, and reconciles the
// successes into a non-overlapping cover of the file synthesised with gap
// fillers.
package sigscan

import (
	"bytes"
	"sort"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/parser"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scandebug"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

type candidate struct {
	start int64
	ctor  parser.Constructor
}

// findCandidates locates every occurrence of every registered signature's
// pattern in src, pairing each candidate start with every constructor
// registered under that signature, in registry-then-discovery order.
func findCandidates(reg *registry.Registry, src *bytesource.Mapping) []candidate {
	data := src.Bytes()
	var out []candidate

	for _, sig := range reg.Signatures() {
		pattern := []byte(sig.Pattern)
		if len(pattern) == 0 {
			continue
		}
		ctors := reg.BySignature[sig]

		searchFrom := 0
		for {
			idx := bytes.Index(data[searchFrom:], pattern)
			if idx < 0 {
				break
			}
			pos := int64(searchFrom + idx)
			if pos >= sig.Offset {
				start := pos - sig.Offset
				for _, ctor := range ctors {
					out = append(out, candidate{start: start, ctor: ctor})
				}
			}
			searchFrom += idx + len(pattern)
			if searchFrom >= len(data) {
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// Scan runs the signature cascade over ud. It returns the Dirs the driver
// should unpack()/write_info(): an empty slice means signature scanning
// produced no claim at all. A non-empty slice either contains just ud
// (single artifact spanning the whole file) or ud followed by its carved
// children in ascending-offset order, interleaved real matches and
// synthesized gaps.
func Scan(ud *unpackdir.Dir, reg *registry.Registry, src *bytesource.Mapping) ([]*unpackdir.Dir, error) {
	candidates := findCandidates(reg, src)

	var scanOffset int64
	var parts []unpackdir.Region
	var children []*unpackdir.Dir

	for _, c := range candidates {
		if c.start < scanOffset {
			scandebug.Log("sigscan", "skipping candidate at %d, already covered through %d", c.start, scanOffset)
			continue
		}

		p, err := c.ctor(src, c.start)
		if err != nil {
			scandebug.Log("sigscan", "constructor at %d failed: %v", c.start, err)
			continue
		}
		if err := p.ParseFromOffset(); err != nil {
			scandebug.Log("sigscan", "candidate at %d rejected: %v", c.start, err)
			continue
		}
		if p.ParsedSize() <= 0 {
			scandebug.Log("sigscan", "candidate at %d reported parsed_size<=0, treating as ParseFail", c.start)
			continue
		}

		if c.start == 0 && p.ParsedSize() == src.Size() {
			scandebug.Log("sigscan", "candidate at 0 covers entire file, single artifact")
			ud.UnpackParser = p
			return []*unpackdir.Dir{ud}, nil
		}

		if c.start > scanOffset {
			gapLen := c.start - scanOffset
			gapChild, err := ud.Carve(src, unpackdir.Region{Offset: scanOffset, Length: gapLen})
			if err != nil {
				return nil, scanerr.New(scanerr.KindIO, "carve gap", err).WithPath(ud.FilePath)
			}
			gapChild.UnpackParser = parser.NewSynthesizingParser(scanOffset, gapLen)
			children = append(children, gapChild)
			parts = append(parts, unpackdir.Region{Offset: scanOffset, Length: gapLen})
		}

		matchedChild, err := ud.Carve(src, unpackdir.Region{Offset: c.start, Length: p.ParsedSize()})
		if err != nil {
			return nil, scanerr.New(scanerr.KindIO, "carve match", err).WithPath(ud.FilePath)
		}
		matchedChild.UnpackParser = p
		children = append(children, matchedChild)
		parts = append(parts, unpackdir.Region{Offset: c.start, Length: p.ParsedSize()})

		scanOffset = c.start + p.ParsedSize()
	}

	if scanOffset > 0 && scanOffset < src.Size() {
		gapLen := src.Size() - scanOffset
		gapChild, err := ud.Carve(src, unpackdir.Region{Offset: scanOffset, Length: gapLen})
		if err != nil {
			return nil, scanerr.New(scanerr.KindIO, "carve trailing gap", err).WithPath(ud.FilePath)
		}
		gapChild.UnpackParser = parser.NewSynthesizingParser(scanOffset, gapLen)
		children = append(children, gapChild)
		parts = append(parts, unpackdir.Region{Offset: scanOffset, Length: gapLen})
	}

	if len(parts) == 0 {
		return nil, nil
	}

	ud.UnpackParser = parser.NewExtractingParser(parts)
	return append([]*unpackdir.Dir{ud}, children...), nil
}
