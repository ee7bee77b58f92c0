// Package scanerr provides the typed error taxonomy for the scan pipeline:
// ParseFail, Unscannable, IOError and RegistryError, all exposed as one
// wrapping error type so callers can use errors.Is/As against a Kind.
package scanerr

import (
	"errors"
	"fmt"
	"time"
)

// Kind distinguishes the error categories the scan pipeline can produce.
type Kind string

const (
	// KindParseFail marks a candidate parser that rejected its region.
	// Locally recovered by the scanner that produced it.
	KindParseFail Kind = "parse_fail"
	// KindUnscannable marks an input that is not a regular, positive-size file.
	KindUnscannable Kind = "unscannable"
	// KindIO marks a failure to read, map, or write. Propagated out of the job.
	KindIO Kind = "io"
	// KindRegistry marks a plugin constructor that failed during instantiation.
	// Treated identically to KindParseFail by callers.
	KindRegistry Kind = "registry"
)

// ScanError is the single error type returned by every scan-pipeline
// component. Operation names the step that failed (e.g. "parse_from_offset",
// "extscan", "sigscan"); Path is the file or candidate region involved.
type ScanError struct {
	Kind       Kind
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// New builds a ScanError of the given kind.
func New(kind Kind, op string, err error) *ScanError {
	return &ScanError{Kind: kind, Operation: op, Underlying: err, Timestamp: time.Now()}
}

// WithPath attaches the file path the error concerns.
func (e *ScanError) WithPath(path string) *ScanError {
	e.Path = path
	return e
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Kind, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Kind, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ScanError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a *ScanError of the same Kind (a target with
// an empty Kind matches any *ScanError), so callers can
// write errors.Is(err, scanerr.New(scanerr.KindParseFail, "", nil)) or, more
// idiomatically, use the Is* helpers below.
func (e *ScanError) Is(target error) bool {
	other, ok := target.(*ScanError)
	if !ok {
		return false
	}
	if other.Kind == "" {
		return true
	}
	return e.Kind == other.Kind
}

// sentinel is a zero-value *ScanError used only to match a Kind via errors.Is.
func sentinel(kind Kind) *ScanError { return &ScanError{Kind: kind} }

// IsParseFail reports whether err is (or wraps) a parse-fail error.
func IsParseFail(err error) bool { return errors.Is(err, sentinel(KindParseFail)) }

// IsUnscannable reports whether err is (or wraps) an unscannable error.
func IsUnscannable(err error) bool { return errors.Is(err, sentinel(KindUnscannable)) }

// IsIO reports whether err is (or wraps) an I/O error.
func IsIO(err error) bool { return errors.Is(err, sentinel(KindIO)) }

// IsRegistry reports whether err is (or wraps) a registry error.
func IsRegistry(err error) bool { return errors.Is(err, sentinel(KindRegistry)) }
