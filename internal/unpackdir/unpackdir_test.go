package unpackdir

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromUDPathDerivesPaths(t *testing.T) {
	d := FromUDPath("/unpack", "sample.bin")

	require.Equal(t, "/unpack/sample.bin", d.AbsFilePath())
	require.Equal(t, "sample.bin.ud", d.UDPath())
	require.Equal(t, "/unpack/sample.bin.ud", d.AbsUDPath())
	require.False(t, d.IsScanned())
}

func TestIsScannedTracksInfo(t *testing.T) {
	d := FromUDPath("/unpack", "sample.bin")
	require.False(t, d.IsScanned())

	d.Info["labels"] = []string{"padding"}
	require.True(t, d.IsScanned())
}

func TestAddExtractedFileIsAppendOnly(t *testing.T) {
	parent := FromUDPath("/unpack", "archive.bin")
	childA := FromUDPath("/unpack", "archive.bin.ud/part-0")
	childB := FromUDPath("/unpack", "archive.bin.ud/part-1")

	parent.AddExtractedFile(childA)
	parent.AddExtractedFile(childB)

	got := parent.ExtractedFiles()
	require.Len(t, got, 2)
	require.Same(t, childA, got[0])
	require.Same(t, childB, got[1])
}

func TestReserveNameResolvesCollisions(t *testing.T) {
	d := FromUDPath("/unpack", "fbpk.bin")

	name1, renamed1 := d.ReserveName("boot")
	require.Equal(t, "boot", name1)
	require.False(t, renamed1)

	name2, renamed2 := d.ReserveName("boot")
	require.Equal(t, "boot-1", name2)
	require.True(t, renamed2)

	name3, renamed3 := d.ReserveName("boot")
	require.Equal(t, "boot-2", name3)
	require.True(t, renamed3)
}

func TestPersistInfoWritesInfoFileUnderUDDirectory(t *testing.T) {
	root := t.TempDir()
	d := FromUDPath(root, "sample.bin")
	d.Info["labels"] = []string{"padding"}
	d.Info["metadata"] = map[string]any{}
	d.Info["offset"] = int64(0)
	d.Info["size"] = int64(42)
	d.Info["parser"] = "padding"

	require.NoError(t, d.PersistInfo())

	data, err := os.ReadFile(filepath.Join(d.AbsUDPath(), infoFileName))
	require.NoError(t, err)

	var got Info
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []string{"padding"}, got.Labels)
	require.Equal(t, int64(42), got.Size)
	require.Equal(t, "padding", got.Parser)
}
