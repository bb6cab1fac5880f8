// interfaces.go: public interfaces for duocache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import "github.com/agilira/go-timecache"

// RecordCodec is the record type contract consumed by the engine.
// Each registered record type supplies a serializer, a deserializer, a
// schema version, a type-identity check, and a byte-size estimator.
// Implementations must be safe for concurrent use (the engine never
// mutates a shared RecordCodec).
type RecordCodec interface {
	// SchemaVersion returns the current version string for this record
	// type. Version comparison elsewhere in the engine is exact string
	// equality; no migration is attempted.
	SchemaVersion() string

	// Accepts reports whether value is an instance of the registered
	// record type. put/put_many reject values that fail this check with
	// WrongType.
	Accepts(value any) bool

	// Encode serializes value to a self-describing byte payload.
	Encode(value any) ([]byte, error)

	// Decode deserializes a byte payload produced by Encode. It must
	// fail cleanly (return an error, never panic) on corrupt or
	// incompatible payloads.
	Decode(data []byte) (any, error)

	// EstimateSize reports the cached byte-size of value without
	// necessarily encoding it. Callers may simply return
	// len(Encode(value)) if a cheaper estimate isn't available.
	EstimateSize(value any) int
}

// Logger defines a minimal structured logging interface with zero
// overhead when unused.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as the default to avoid
// nil checks on every log call.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// Clock provides the current time as float seconds, matching the
// Cache Entry's last_access_ts representation. Implementations must be
// safe for concurrent use.
type Clock interface {
	// Now returns the current time in seconds, monotonic or wall-clock.
	Now() float64
}

// systemClock is the default Clock, backed by go-timecache's cached
// monotonic reading rather than a fresh time.Now() on every call.
type systemClock struct{}

func (systemClock) Now() float64 {
	return float64(timecache.CachedTimeNano()) / 1e9
}

// MetricsCollector receives operation-level observability events.
// Implementations must be safe for concurrent use and must not block.
//
// The Engine does not time its operations: it passes 0 as latencyNs on
// every call. GetMany reports no events at all, neither gets nor the
// expirations it removes.
type MetricsCollector interface {
	// RecordGet is called once per Get, after memory/disk lookup and TTL
	// and schema checks have resolved to a hit or miss.
	RecordGet(latencyNs int64, tier string, hit bool)

	// RecordPut is called once per put (and once per put_many, with the
	// aggregate latency of the whole batch).
	RecordPut(latencyNs int64, itemCount int)

	// RecordDelete is called once per delete/delete_many.
	RecordDelete(latencyNs int64, itemCount int)

	// RecordEviction is called once per evicted key, tagged by tier
	// ("memory" or "disk").
	RecordEviction(tier string)

	// RecordExpiration is called once per TTL-expired entry removed by
	// Get, tagged by tier.
	RecordExpiration(tier string)
}

// NoOpMetricsCollector discards all events. Used as the default so the
// engine never pays for metrics it isn't configured to emit.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGet(latencyNs int64, tier string, hit bool) {}
func (NoOpMetricsCollector) RecordPut(latencyNs int64, itemCount int)         {}
func (NoOpMetricsCollector) RecordDelete(latencyNs int64, itemCount int)      {}
func (NoOpMetricsCollector) RecordEviction(tier string)                      {}
func (NoOpMetricsCollector) RecordExpiration(tier string)                    {}

// Stats provides statistics about engine performance, aggregated across
// both tiers.
type Stats struct {
	MemoryHits         uint64
	DiskHits           uint64
	Misses             uint64
	MemoryEvictions    uint64
	DiskEvictions      uint64
	TotalPuts          uint64
	TotalGets          uint64
	TotalDeletes       uint64
	CurrentMemoryItems int64
	CurrentDiskItems   int64
	CurrentMemoryBytes int64
	CurrentDiskBytes   int64
}

// HitRatio returns the combined hit ratio as a value in [0, 1].
func (s Stats) HitRatio() float64 {
	total := s.MemoryHits + s.DiskHits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.MemoryHits+s.DiskHits) / float64(total)
}
