//go:build unix

package unpackdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/corescan/internal/bytesource"
)

// ExtractedFilename deterministically names a carved child of this Dir.
// It incorporates both offset and length so the same (offset, length) pair
// resolves to the same relative path across runs, satisfying the
// idempotent-carving property: carving the same region twice into the same
// parent yields the same child path.
func (d *Dir) ExtractedFilename(offset, length int64) string {
	digest := uint32(xxhash.Sum64(fmt.Appendf(nil, "%s:%d:%d", d.FilePath, offset, length)))
	return fmt.Sprintf("off_%d-len_%d-%08x", offset, length, digest)
}

// Carve copies the region [region.Offset, region.Offset+region.Length) out
// of src into a new child file under this Dir's workspace directory, and
// registers the resulting child Dir via AddExtractedFile.
func (d *Dir) Carve(src *bytesource.Mapping, region Region) (*Dir, error) {
	name := d.ExtractedFilename(region.Offset, region.Length)
	relPath := filepath.Join(d.UDPath(), name)
	absPath := filepath.Join(d.UnpackRoot, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("unpackdir: mkdir for %s: %w", relPath, err)
	}

	out, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("unpackdir: create %s: %w", relPath, err)
	}
	defer out.Close()

	if _, err := src.WriteRegion(out, region.Offset, region.Length); err != nil {
		return nil, fmt.Errorf("unpackdir: carve [%d:%d] into %s: %w", region.Offset, region.Offset+region.Length, relPath, err)
	}

	child := FromUDPath(d.UnpackRoot, relPath)
	child.Size = region.Length
	d.AddExtractedFile(child)
	return child, nil
}
