package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDLDefaults(t *testing.T) {
	cfg, err := parseKDL("/proj", "")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, DefaultWorkerCount, cfg.Scan.WorkerCount)
	assert.True(t, cfg.Scan.RespectPadding)
}

func TestParseKDLScanOverrides(t *testing.T) {
	kdlContent := `
scan {
    workers 8
    queue_timeout_sec 5
    respect_padding false
}
`
	cfg, err := parseKDL("/proj", kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scan.WorkerCount)
	assert.Equal(t, 5, int(cfg.Scan.QueueTimeout.Seconds()))
	assert.False(t, cfg.Scan.RespectPadding)
}

func TestParseKDLProjectRoot(t *testing.T) {
	kdlContent := `
project {
    root "subdir"
}
`
	cfg, err := parseKDL("/proj", kdlContent)
	require.NoError(t, err)
	assert.Equal(t, "subdir", cfg.Project.Root)
}

func TestLoadKDLMissingFileReturnsNil(t *testing.T) {
	root := t.TempDir()
	cfg, err := LoadKDL(root)
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadKDLResolvesProjectRootToAbsolutePath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte(`
scan {
    workers 6
}
`), 0o644))

	cfg, err := LoadKDL(root)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, root, cfg.Project.Root)
	assert.Equal(t, 6, cfg.Scan.WorkerCount)
}
