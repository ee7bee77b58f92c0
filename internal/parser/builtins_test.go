//go:build unix

package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

func mapTempFile(t *testing.T, content []byte) *bytesource.Mapping {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	m, err := bytesource.Map(path)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestPaddingParserClaimsWholeFile(t *testing.T) {
	m := mapTempFile(t, make([]byte, 64))
	p := NewPaddingParser(m, 0)

	require.NoError(t, p.ParseFromOffset())
	require.Equal(t, int64(64), p.ParsedSize())

	ud := unpackdir.FromUDPath("/root", "f.bin")
	p.WriteInfo(ud)
	require.Equal(t, []string{"padding"}, ud.Info["labels"])
	require.True(t, ud.IsScanned())
}

func TestSynthesizingParserAlwaysSucceeds(t *testing.T) {
	p := NewSynthesizingParser(10, 20)

	require.NoError(t, p.ParseFromOffset())
	require.Equal(t, int64(20), p.ParsedSize())

	ud := unpackdir.FromUDPath("/root", "gap.bin")
	p.WriteInfo(ud)
	require.Equal(t, []string{"synthesized"}, ud.Info["labels"])
	require.Equal(t, int64(10), ud.Info["offset"])
}

func TestExtractingParserSumsParts(t *testing.T) {
	parts := []unpackdir.Region{{Offset: 0, Length: 100}, {Offset: 100, Length: 50}}
	p := NewExtractingParser(parts)

	require.NoError(t, p.ParseFromOffset())
	require.Equal(t, int64(150), p.ParsedSize())

	ud := unpackdir.FromUDPath("/root", "archive.bin")
	p.WriteInfo(ud)
	require.Equal(t, []string{"extracted"}, ud.Info["labels"])
	meta := ud.Info["metadata"].(map[string]any)
	require.Len(t, meta["parts"], 2)
}
