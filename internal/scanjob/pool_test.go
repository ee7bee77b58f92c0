//go:build unix

package scanjob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/corescan/internal/bytesource"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/unpackdir"
)

func TestPoolDrainsQueueAndTerminates(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "file"+string(rune('a'+i))+".box"), make([]byte, 16), 0o644))
	}

	q := NewQueue(8)
	reg := registry.New()
	reg.RegisterExtension("*.box", func(src *bytesource.Mapping, offset int64) (unpackdir.Parser, error) {
		return &boxParser{src: src, claim: src.Size(), region: unpackdir.Region{Offset: 0, Length: 1}}, nil
	})

	pool := NewPool(3, root, reg, q).WithQueueTimeout(50 * time.Millisecond)

	q.Push(Job{Path: "filea.box"})
	q.Push(Job{Path: "fileb.box"})
	q.Push(Job{Path: "filec.box"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, pool.Run(ctx))
}

func TestPoolPropagatesFirstWorkerError(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	q := NewQueue(4)
	reg := registry.New()

	// No registered parsers and a path that does not exist: ProcessJob will
	// fail the os.Stat call.
	q.Push(Job{Path: "missing.bin"})

	pool := NewPool(2, root, reg, q).WithQueueTimeout(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := pool.Run(ctx)
	require.Error(t, err)
}
