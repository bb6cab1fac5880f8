// config.go: configuration for duocache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import "time"

// Config holds the constructor-time configuration for an Engine. All
// budget fields are required; zero is a valid budget (it simply admits
// nothing to that tier, modulo oversized routing).
type Config struct {
	// DBPath is the filesystem path to the disk store, or ":memory:" for
	// an ephemeral, process-local store.
	DBPath string

	// Model is the RecordCodec for the single record type this Engine
	// instance manages.
	Model RecordCodec

	// MaxMemoryItems is the memory tier's count budget.
	MaxMemoryItems int64

	// MaxMemorySizeBytes is the memory tier's byte budget.
	MaxMemorySizeBytes int64

	// MaxDiskItems is the disk tier's count budget.
	MaxDiskItems int64

	// MaxDiskSizeBytes is the disk tier's byte budget.
	MaxDiskSizeBytes int64

	// MemoryTTL is the sliding TTL for memory entries. Zero means
	// entries never expire from memory by age.
	MemoryTTL time.Duration

	// DiskTTL is the sliding TTL for disk entries. Zero means entries
	// never expire from disk by age.
	DiskTTL time.Duration

	// MaxItemSizeBytes is the threshold above which a record is routed
	// disk-only and never occupies memory.
	MaxItemSizeBytes int64

	// Logger receives debug/warn-level engine events. Default: NoOpLogger.
	Logger Logger

	// Clock provides the current time for default-timestamp operations.
	// Default: a go-timecache-backed system clock.
	Clock Clock

	// MetricsCollector receives operation counters and latencies.
	// Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes optional fields and rejects a Config whose required
// fields are missing or malformed. Unlike the teacher's cache Config,
// budgets are domain data, not tuning knobs with sensible fallbacks: an
// invalid budget is a configuration error, not something to silently
// default away.
func (c *Config) Validate() error {
	if c.Model == nil {
		return NewErrInvalidConfig("model is required")
	}
	if c.MaxMemoryItems < 0 || c.MaxMemorySizeBytes < 0 ||
		c.MaxDiskItems < 0 || c.MaxDiskSizeBytes < 0 || c.MaxItemSizeBytes < 0 {
		return NewErrInvalidConfig("budgets must be non-negative")
	}
	if c.MemoryTTL < 0 || c.DiskTTL < 0 {
		return NewErrInvalidConfig("ttls must be non-negative")
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}
