//go:build unix

// Package registry maps file-extension patterns and byte signatures to
// candidate parser constructors. It is built once at startup by explicit
// per-plugin registration calls and is read-only, safely shared across scan
// workers, thereafter.
package registry

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/corescan/internal/parser"
)

// Registry holds the two indexes the extension and signature scanners
// consult: by-signature and by-extension candidate constructors.
type Registry struct {
	// BySignature preserves registration order per signature; within a
	// signature, earlier-registered constructors are tried first on a tie.
	BySignature map[parser.Signature][]parser.Constructor
	// ByExtension maps a glob-like extension pattern to its constructors,
	// in registration order.
	ByExtension map[string][]parser.Constructor

	// signatureOrder and extensionOrder record first-seen key order so
	// iteration over the maps above is deterministic across runs, matching
	// the determinism property the signature scanner depends on.
	signatureOrder []parser.Signature
	extensionOrder []string
}

// New returns an empty, ready-to-populate Registry.
func New() *Registry {
	return &Registry{
		BySignature: map[parser.Signature][]parser.Constructor{},
		ByExtension: map[string][]parser.Constructor{},
	}
}

// RegisterSignature adds ctor as a candidate for sig, appended after any
// constructors already registered for the same signature.
func (r *Registry) RegisterSignature(sig parser.Signature, ctor parser.Constructor) {
	if _, seen := r.BySignature[sig]; !seen {
		r.signatureOrder = append(r.signatureOrder, sig)
	}
	r.BySignature[sig] = append(r.BySignature[sig], ctor)
}

// RegisterExtension adds ctor as a candidate for files whose name matches
// pattern (a doublestar glob, e.g. "*.gif").
func (r *Registry) RegisterExtension(pattern string, ctor parser.Constructor) {
	if _, seen := r.ByExtension[pattern]; !seen {
		r.extensionOrder = append(r.extensionOrder, pattern)
	}
	r.ByExtension[pattern] = append(r.ByExtension[pattern], ctor)
}

// Signatures returns the registered signatures in registration order.
func (r *Registry) Signatures() []parser.Signature {
	out := make([]parser.Signature, len(r.signatureOrder))
	copy(out, r.signatureOrder)
	return out
}

// ExtensionPatterns returns the registered extension patterns in
// registration order.
func (r *Registry) ExtensionPatterns() []string {
	out := make([]string, len(r.extensionOrder))
	copy(out, r.extensionOrder)
	return out
}

// MatchesFilePattern reports whether path's base name matches the glob-like
// pattern, e.g. "*.gif" or "*.{tar,tar.gz}".
func MatchesFilePattern(path, pattern string) bool {
	matched, err := doublestar.Match(pattern, filepath.Base(path))
	if err != nil {
		return false
	}
	return matched
}
