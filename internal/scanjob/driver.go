//go:build unix

// Package scanjob drives the classification cascade — unscannable check,
// padding, extension scan, signature scan — over a shared FIFO of jobs, and
// runs a pool of workers that consume it.
package scanjob

import (
	"os"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/extscan"
	"github.com/standardbeagle/corescan/internal/padding"
	"github.com/standardbeagle/corescan/internal/parser"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scandebug"
	"github.com/standardbeagle/corescan/internal/scanerr"
	"github.com/standardbeagle/corescan/internal/sigscan"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

// Driver runs the six-step cascade for a single job at a time. It is not
// itself concurrency-safe to share across goroutines; Pool gives each
// worker its own Driver over the same Queue and Registry.
type Driver struct {
	unpackRoot string
	registry   *registry.Registry
	queue      *Queue
}

// NewDriver builds a Driver rooted at unpackRoot, using reg to resolve
// candidate parsers and pushing discovered children onto queue.
func NewDriver(unpackRoot string, reg *registry.Registry, queue *Queue) *Driver {
	return &Driver{unpackRoot: unpackRoot, registry: reg, queue: queue}
}

// ProcessJob runs the cascade against job.Path, relative to the driver's
// unpack root.
func (d *Driver) ProcessJob(job Job) error {
	ud := unpackdir.FromUDPath(d.unpackRoot, job.Path)
	ud.PendingLabels = job.PendingLabels

	stat, err := os.Stat(ud.AbsFilePath())
	if err != nil {
		return scanerr.New(scanerr.KindIO, "stat", err).WithPath(job.Path)
	}
	if !stat.Mode().IsRegular() || stat.Size() == 0 {
		scandebug.Log("driver", "%s is unscannable, skipping", job.Path)
		return persistPendingLabels(ud)
	}
	ud.Size = stat.Size()

	isPadding, err := padding.IsPadding(ud.AbsFilePath())
	if err != nil {
		return scanerr.New(scanerr.KindIO, "padding check", err).WithPath(job.Path)
	}

	src, err := bytesource.Map(ud.AbsFilePath())
	if err != nil {
		return scanerr.New(scanerr.KindIO, "mmap", err).WithPath(job.Path)
	}
	defer src.Close()

	if isPadding {
		p := parser.NewPaddingParser(src, 0)
		if err := p.ParseFromOffset(); err != nil {
			return err
		}
		ud.UnpackParser = p
		return d.finish([]*unpackdir.Dir{ud})
	}

	extYielded, err := extscan.Scan(ud, d.registry, src)
	if err != nil {
		return err
	}
	if err := d.finish(extYielded); err != nil {
		return err
	}
	if ud.IsScanned() {
		return nil
	}

	sigYielded, err := sigscan.Scan(ud, d.registry, src)
	if err != nil {
		return err
	}
	if len(sigYielded) > 0 {
		if err := d.finish(sigYielded); err != nil {
			return err
		}
	}

	// Step 6: reserved for future featureless parsers; currently a no-op.
	if ud.IsScanned() {
		return nil
	}
	return persistPendingLabels(ud)
}

// persistPendingLabels writes ud's info record if it carries pending labels
// from its parent but was never otherwise claimed by a parser in the
// cascade, so a label like "renamed" is still observable on disk even for a
// child that turned out unscannable or featureless.
func persistPendingLabels(ud *unpackdir.Dir) error {
	if len(ud.PendingLabels) == 0 {
		return nil
	}
	if err := ud.PersistInfo(); err != nil {
		return scanerr.New(scanerr.KindIO, "persist info", err).WithPath(ud.FilePath)
	}
	return nil
}

// finish runs unpack()/write_info() over every yielded Dir, enqueueing
// produced children and persisting each info record.
func (d *Driver) finish(yielded []*unpackdir.Dir) error {
	for _, ud := range yielded {
		if ud.UnpackParser == nil {
			continue
		}

		children, err := ud.UnpackParser.Unpack(ud)
		if err != nil {
			return scanerr.New(scanerr.KindParseFail, "unpack", err).WithPath(ud.FilePath)
		}
		for _, child := range children {
			d.queue.Push(Job{Path: child.FilePath, PendingLabels: child.PendingLabels})
		}

		ud.UnpackParser.WriteInfo(ud)
		if err := ud.PersistInfo(); err != nil {
			return scanerr.New(scanerr.KindIO, "persist info", err).WithPath(ud.FilePath)
		}
	}
	return nil
}
