// Package config loads corescan's project-level settings from a
// .corescan.kdl file, falling back to documented defaults when no file is
// present.
package config

import "time"

// Config is the fully resolved configuration for a scan run.
type Config struct {
	Project Project
	Scan    Scan
}

// Project describes the directory tree being scanned.
type Project struct {
	// Root is the scan's single unpack_root: both the directory scan jobs
	// are seeded from and the root every carved child is written under
	// (as a sibling "<file>.ud" directory next to its parent). Always made
	// absolute during loading.
	Root string
}

// Scan controls the worker pool and cascade behavior.
type Scan struct {
	// WorkerCount is how many concurrent workers the pool runs.
	WorkerCount int
	// QueueTimeout is how long an idle worker waits before terminating.
	QueueTimeout time.Duration
	// RespectPadding is loaded from scan.respect_padding and defaults to
	// true. The scan driver does not read it: the whole-file padding
	// short-circuit always runs, whatever its value.
	RespectPadding bool
}

const (
	// DefaultWorkerCount is used when the KDL config omits scan.workers and
	// no override is passed on the command line.
	DefaultWorkerCount = 4
	// DefaultQueueTimeoutSeconds is used when the KDL config omits
	// scan.queue_timeout_sec.
	DefaultQueueTimeoutSeconds = 2
)

// Default returns the baseline configuration for projectRoot before any KDL
// overrides are applied.
func Default(projectRoot string) *Config {
	return &Config{
		Project: Project{Root: projectRoot},
		Scan: Scan{
			WorkerCount:    DefaultWorkerCount,
			QueueTimeout:   DefaultQueueTimeoutSeconds * time.Second,
			RespectPadding: true,
		},
	}
}
