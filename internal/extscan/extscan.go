//go:build unix

// Package extscan implements the extension scanner: the optimistic fast
// path that tries every parser whose extension pattern matches the input's
// file name, against offset 0, and stops at the first candidate that makes
// progress.
package extscan

import (
	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/parser"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scandebug"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

// Scan runs every registered extension-pattern parser whose pattern matches
// ud.FilePath, starting at offset 0. It returns the Dirs that should be
// yielded to the driver for unpack()/write_info() — either just ud (whole
// file claimed, or no match at all), or ud followed by its two carved
// children (prefix + synthesized suffix) on a partial match.
func Scan(ud *unpackdir.Dir, reg *registry.Registry, src *bytesource.Mapping) ([]*unpackdir.Dir, error) {
	for _, pattern := range reg.ExtensionPatterns() {
		if !registry.MatchesFilePattern(ud.FilePath, pattern) {
			continue
		}

		for _, ctor := range reg.ByExtension[pattern] {
			p, err := ctor(src, 0)
			if err != nil {
				scandebug.Log("extscan", "constructor for pattern %q failed: %v", pattern, err)
				continue
			}

			if err := p.ParseFromOffset(); err != nil {
				scandebug.Log("extscan", "pattern %q parser rejected offset 0: %v", pattern, err)
				continue
			}
			if p.ParsedSize() <= 0 {
				scandebug.Log("extscan", "pattern %q parser reported parsed_size<=0, treating as ParseFail", pattern)
				continue
			}

			if p.ParsedSize() == src.Size() {
				scandebug.Log("extscan", "pattern %q parser consumed whole file", pattern)
				ud.UnpackParser = p
				return []*unpackdir.Dir{ud}, nil
			}

			return splitPartialMatch(ud, src, p)
		}
	}

	return []*unpackdir.Dir{ud}, nil
}

// splitPartialMatch implements spec outcome 3: the parser consumed a
// prefix. The parent gets a synthetic ExtractingParser over the two parts;
// the matched prefix and the trailing suffix are each carved into their own
// child, with the real parser and a SynthesizingParser attached
// respectively.
func splitPartialMatch(ud *unpackdir.Dir, src *bytesource.Mapping, matched unpackdir.Parser) ([]*unpackdir.Dir, error) {
	matchedSize := matched.ParsedSize()
	suffixSize := src.Size() - matchedSize

	ud.UnpackParser = parser.NewExtractingParser([]unpackdir.Region{
		{Offset: 0, Length: matchedSize},
		{Offset: matchedSize, Length: suffixSize},
	})

	prefix, err := ud.Carve(src, unpackdir.Region{Offset: 0, Length: matchedSize})
	if err != nil {
		return nil, scanerr.New(scanerr.KindIO, "carve prefix", err).WithPath(ud.FilePath)
	}
	prefix.UnpackParser = matched

	suffix, err := ud.Carve(src, unpackdir.Region{Offset: matchedSize, Length: suffixSize})
	if err != nil {
		return nil, scanerr.New(scanerr.KindIO, "carve suffix", err).WithPath(ud.FilePath)
	}
	suffix.UnpackParser = parser.NewSynthesizingParser(matchedSize, suffixSize)

	return []*unpackdir.Dir{ud, prefix, suffix}, nil
}
