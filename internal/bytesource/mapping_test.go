//go:build unix

package bytesource

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestMapBytesAndSlice(t *testing.T) {
	content := []byte("GIF89a-some-fake-payload-bytes")
	path := writeTempFile(t, content)

	m, err := Map(path)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, int64(len(content)), m.Size())
	require.True(t, bytes.Equal(m.Bytes(), content))
	require.True(t, bytes.Equal(m.Slice(0, 6), []byte("GIF89a")))
}

func TestWriteRegion(t *testing.T) {
	content := []byte("0123456789abcdef")
	path := writeTempFile(t, content)

	m, err := Map(path)
	require.NoError(t, err)
	defer m.Close()

	var buf bytes.Buffer
	n, err := m.WriteRegion(&buf, 4, 6)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)
	require.Equal(t, "456789", buf.String())
}

func TestMapRejectsEmptyFile(t *testing.T) {
	path := writeTempFile(t, nil)

	_, err := Map(path)
	require.Error(t, err)
}
