//go:build unix

package gif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

// minimalGIF builds the smallest valid GIF this parser accepts: header,
// logical screen descriptor with no color table, a single zero-length
// extension block, and the trailer.
func minimalGIF() []byte {
	b := []byte("GIF89a")
	b = append(b, 0x01, 0x00, 0x01, 0x00) // width=1, height=1
	b = append(b, 0x00)                   // packed: no global color table
	b = append(b, 0x00, 0x00)             // background color index, pixel aspect ratio
	b = append(b, blockExtension, 0xFE)   // comment extension
	b = append(b, 0x00)                   // zero-length sub-block terminator
	b = append(b, blockTrailer)
	return b
}

func mapBytes(t *testing.T, content []byte) *bytesource.Mapping {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "sample.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	m, err := bytesource.Map(path)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestParseFromOffsetAcceptsMinimalGIF(t *testing.T) {
	content := minimalGIF()
	src := mapBytes(t, content)

	p, err := New(src, 0)
	require.NoError(t, err)
	require.NoError(t, p.ParseFromOffset())
	require.Equal(t, int64(len(content)), p.ParsedSize())
}

func TestParseFromOffsetRejectsBadMagic(t *testing.T) {
	src := mapBytes(t, []byte("not-a-gif-at-all"))
	p, err := New(src, 0)
	require.NoError(t, err)
	require.Error(t, p.ParseFromOffset())
}

func TestParseFromOffsetRejectsTruncatedSubBlock(t *testing.T) {
	content := minimalGIF()
	content = content[:len(content)-2] // chop off the terminator and trailer
	src := mapBytes(t, content)

	p, err := New(src, 0)
	require.NoError(t, err)
	require.Error(t, p.ParseFromOffset())
}

func TestUnpackLeavesWholeFileGIFAttachedToParent(t *testing.T) {
	content := minimalGIF()
	src := mapBytes(t, content)

	p, err := New(src, 0)
	require.NoError(t, err)
	require.NoError(t, p.ParseFromOffset())

	ud := unpackdir.FromUDPath(t.TempDir(), "sample.gif")
	children, err := p.Unpack(ud)
	require.NoError(t, err)
	require.Empty(t, children)
}

func TestUnpackCarvesEmbeddedGIFIntoChild(t *testing.T) {
	content := append([]byte("leading-noise-"), minimalGIF()...)
	src := mapBytes(t, content)

	startOffset := int64(len("leading-noise-"))
	p, err := New(src, startOffset)
	require.NoError(t, err)
	require.NoError(t, p.ParseFromOffset())

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.bin"), content, 0o644))
	ud := unpackdir.FromUDPath(root, "sample.bin")

	children, err := p.Unpack(ud)
	require.NoError(t, err)
	require.Len(t, children, 1)

	p.WriteInfo(ud)
	labels := ud.Info["labels"].([]string)
	require.Contains(t, labels, "unpacked")
}
