//go:build unix

// Package formats lists every concrete leaf parser plugin and wires it into
// a registry. Adding a format means adding one line here, not touching the
// scanners.
package formats

import (
	"github.com/standardbeagle/corescan/internal/formats/fbpk"
	"github.com/standardbeagle/corescan/internal/formats/gif"
	"github.com/standardbeagle/corescan/internal/registry"
)

// RegisterAll installs every built-in format plugin into reg.
func RegisterAll(reg *registry.Registry) {
	gif.Register(reg)
	fbpk.Register(reg)
}
