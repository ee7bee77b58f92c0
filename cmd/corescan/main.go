//go:build unix

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/corescan/internal/config"
	"github.com/standardbeagle/corescan/internal/formats"
	"github.com/standardbeagle/corescan/internal/registry"
	"github.com/standardbeagle/corescan/internal/scandebug"
	"github.com/standardbeagle/corescan/internal/scanjob"
)

func main() {
	app := &cli.App{
		Name:  "corescan",
		Usage: "recursive binary classification and unpack scanner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root directory to scan (overrides config)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path (not read: config is always loaded from .corescan.kdl under the project root)",
				Value:   ".corescan.kdl",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "worker pool size (overrides config)",
			},
			&cli.DurationFlag{
				Name:  "queue-timeout",
				Usage: "idle worker termination timeout",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug trace output on stderr",
			},
		},
		Action: scanCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "corescan: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides resolves the project root, loads its KDL config
// (or falls back to documented defaults), and applies any CLI flag
// overrides on top.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default(absRoot)
	}

	if c.IsSet("root") {
		cfg.Project.Root = absRoot
	}
	if c.IsSet("workers") {
		cfg.Scan.WorkerCount = c.Int("workers")
	}
	if c.IsSet("queue-timeout") {
		cfg.Scan.QueueTimeout = c.Duration("queue-timeout")
	}

	return cfg, nil
}

func scanCommand(c *cli.Context) error {
	scandebug.SetEnabled(c.Bool("debug"))

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	reg := registry.New()
	formats.RegisterAll(reg)

	queue := scanjob.NewQueue(256)
	jobCount, err := seedJobs(cfg, queue)
	if err != nil {
		return fmt.Errorf("failed to seed scan queue: %w", err)
	}
	if jobCount == 0 {
		fmt.Fprintf(os.Stderr, "corescan: no regular files found under %s\n", cfg.Project.Root)
		return nil
	}

	pool := scanjob.NewPool(cfg.Scan.WorkerCount, cfg.Project.Root, reg, queue).
		WithQueueTimeout(cfg.Scan.QueueTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	start := time.Now()
	if err := pool.Run(ctx); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("corescan: scanned %d file(s) under %s in %s\n", jobCount, cfg.Project.Root, time.Since(start).Round(time.Millisecond))
	return nil
}

// seedJobs walks cfg.Project.Root and pushes one job per regular file found,
// skipping every "<file>.ud" directory so a rerun over previously scanned
// output does not re-ingest carved children.
func seedJobs(cfg *config.Config, queue *scanjob.Queue) (int, error) {
	count := 0

	err := filepath.WalkDir(cfg.Project.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(cfg.Project.Root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if strings.HasSuffix(rel, ".ud") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		queue.Push(scanjob.Job{Path: rel})
		count++
		return nil
	})
	return count, err
}
