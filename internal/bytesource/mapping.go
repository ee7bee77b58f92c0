//go:build unix

// Package bytesource provides the immutable, byte-addressable view of an
// input file that backs every parser and the signature scanner. It is a
// thin wrapper around a read-only memory mapping: parsers take zero-copy
// slices into it, and the mapping outlives every parser built over it.
package bytesource

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only memory-mapped view of a file.
type Mapping struct {
	file *os.File
	data []byte
}

// Map opens path and memory-maps it read-only for the lifetime of a scan job.
// The caller owns the returned Mapping and must call Close.
func Map(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bytesource: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("bytesource: stat %s: %w", path, err)
	}

	size := info.Size()
	if size <= 0 {
		f.Close()
		return nil, fmt.Errorf("bytesource: %s is not mappable (size %d)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("bytesource: mmap %s: %w", path, err)
	}

	return &Mapping{file: f, data: data}, nil
}

// Bytes returns the full mapped region. Callers must not mutate it.
func (m *Mapping) Bytes() []byte { return m.data }

// Size returns the mapped length in bytes.
func (m *Mapping) Size() int64 { return int64(len(m.data)) }

// Slice returns the zero-copy region [offset, offset+length) of the mapping.
func (m *Mapping) Slice(offset, length int64) []byte {
	return m.data[offset : offset+length]
}

// WriteRegion copies length bytes starting at offset from the mapping's
// backing file into dst via io.Copy over an *os.File-backed SectionReader,
// so the kernel's copy fast path is used instead of writing through the
// mapped slice.
func (m *Mapping) WriteRegion(dst io.Writer, offset, length int64) (int64, error) {
	return io.Copy(dst, io.NewSectionReader(m.file, offset, length))
}

// Close unmaps the region and closes the backing file.
func (m *Mapping) Close() error {
	var mmapErr error
	if m.data != nil {
		mmapErr = unix.Munmap(m.data)
		m.data = nil
	}
	closeErr := m.file.Close()
	if mmapErr != nil {
		return mmapErr
	}
	return closeErr
}
