// engine.go: the Coordinator -- duocache's front door
//
// Engine orders operations across the memory and disk tiers, enforces
// write-through put / read-through get with promotion, routes oversized
// items to disk only, runs the eviction Policy, and serializes every
// public operation under a single reader-writer lock (spec §5).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import (
	"sync"
)

// Engine is a two-tier, schema-versioned cache over a single registered
// record type. All methods are safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	mem  *memoryIndex
	disk *diskStore

	model   RecordCodec
	logger  Logger
	clock   Clock
	metrics MetricsCollector

	maxMemoryItems     int64
	maxMemorySizeBytes int64
	maxDiskItems       int64
	maxDiskSizeBytes   int64
	maxItemSizeBytes   int64
	memoryTTL          float64
	diskTTL            float64

	closed bool
	counters
}

// counters holds the monotonic statistics tracked in spec §4.1. It is
// embedded directly in Engine since every mutation already runs under
// the engine's own lock; no separate synchronization is needed.
type counters struct {
	memoryHits      uint64
	diskHits        uint64
	misses          uint64
	memoryEvictions uint64
	diskEvictions   uint64
	totalPuts       uint64
	totalGets       uint64
	totalDeletes    uint64
}

// Open creates a new Engine over cfg. It opens (and idempotently
// initializes the schema of) the disk store at cfg.DBPath.
func Open(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	disk, err := openDiskStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &Engine{
		mem:                newMemoryIndex(),
		disk:               disk,
		model:              cfg.Model,
		logger:             cfg.Logger,
		clock:              cfg.Clock,
		metrics:            cfg.MetricsCollector,
		maxMemoryItems:     cfg.MaxMemoryItems,
		maxMemorySizeBytes: cfg.MaxMemorySizeBytes,
		maxDiskItems:       cfg.MaxDiskItems,
		maxDiskSizeBytes:   cfg.MaxDiskSizeBytes,
		maxItemSizeBytes:   cfg.MaxItemSizeBytes,
		memoryTTL:          cfg.MemoryTTL.Seconds(),
		diskTTL:            cfg.DiskTTL.Seconds(),
	}, nil
}

func (e *Engine) resolveTs(ts []float64) float64 {
	if len(ts) > 0 {
		return ts[0]
	}
	return e.clock.Now()
}

func (e *Engine) currentVersion() string { return e.model.SchemaVersion() }

// Get retrieves the record stored under key. The second return value
// reports whether the key was found (a miss is not an error).
func (e *Engine) Get(key string, ts ...float64) (any, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, false, NewErrClosed("get")
	}
	if key == "" {
		return nil, false, NewErrInvalidKey("get")
	}

	timestamp := e.resolveTs(ts)
	e.totalGets++

	if row, ok := e.mem.Get(key); ok {
		switch {
		case isExpired(row.LastAccessTs, timestamp, e.memoryTTL):
			e.mem.Delete(key)
			e.metrics.RecordExpiration("memory")
			e.logger.Debug("memory entry expired", "key", key)
		case row.SchemaVersion != e.currentVersion():
			e.mem.Delete(key)
			e.logger.Debug("memory entry schema mismatch", "key", key)
		default:
			row.LastAccessTs = timestamp
			e.memoryHits++
			e.metrics.RecordGet(0, "memory", true)
			return row.Value, true, nil
		}
	}

	row, found, err := e.disk.Get(key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		e.misses++
		e.metrics.RecordGet(0, "disk", false)
		return nil, false, nil
	}

	if isExpired(row.LastAccessTs, timestamp, e.diskTTL) {
		_ = e.disk.Delete(key)
		e.misses++
		e.metrics.RecordExpiration("disk")
		e.metrics.RecordGet(0, "disk", false)
		return nil, false, nil
	}
	if row.SchemaVersion != e.currentVersion() {
		_ = e.disk.Delete(key)
		e.misses++
		e.logger.Debug("disk entry schema mismatch", "key", key)
		e.metrics.RecordGet(0, "disk", false)
		return nil, false, nil
	}

	value, err := e.model.Decode(row.Payload)
	if err != nil {
		_ = e.disk.Delete(key)
		e.misses++
		e.logger.Warn("disk entry corrupt, deleting", "key", key, "error", err)
		e.metrics.RecordGet(0, "disk", false)
		return nil, false, nil
	}

	row.LastAccessTs = timestamp
	if err := e.disk.Upsert(row); err != nil {
		return nil, false, err
	}
	e.diskHits++
	e.metrics.RecordGet(0, "disk", true)

	if row.ByteSize <= e.maxItemSizeBytes {
		e.mem.Upsert(key, &memoryRow{
			Value:         value,
			ByteSize:      row.ByteSize,
			LastAccessTs:  timestamp,
			SchemaVersion: row.SchemaVersion,
		})
		e.evictMemory()
	}

	return value, true, nil
}

// Put stores value under key, write-through to disk.
func (e *Engine) Put(key string, value any, ts ...float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return NewErrClosed("put")
	}
	if key == "" {
		return NewErrInvalidKey("put")
	}
	if !e.model.Accepts(value) {
		return NewErrWrongType(key)
	}

	payload, err := e.model.Encode(value)
	if err != nil {
		return NewErrSerializationFailure(key, err)
	}

	timestamp := e.resolveTs(ts)
	size := int64(len(payload))

	prevRow, hadPrev := e.mem.Get(key)
	var prevCopy *memoryRow
	if hadPrev {
		c := *prevRow
		prevCopy = &c
	}

	if size <= e.maxItemSizeBytes {
		e.mem.Upsert(key, &memoryRow{
			Value:         value,
			ByteSize:      size,
			LastAccessTs:  timestamp,
			SchemaVersion: e.currentVersion(),
		})
	} else {
		e.mem.Delete(key)
	}

	if err := e.disk.Upsert(diskRow{
		Key:           key,
		Payload:       payload,
		ByteSize:      size,
		LastAccessTs:  timestamp,
		SchemaVersion: e.currentVersion(),
	}); err != nil {
		if hadPrev {
			e.mem.Upsert(key, prevCopy)
		} else {
			e.mem.Delete(key)
		}
		return err
	}

	e.evictMemory()
	e.evictDisk()
	e.totalPuts++
	e.metrics.RecordPut(0, 1)
	return nil
}

// Delete removes key from both tiers.
func (e *Engine) Delete(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return NewErrClosed("delete")
	}
	if key == "" {
		return NewErrInvalidKey("delete")
	}

	e.mem.Delete(key)
	if err := e.disk.Delete(key); err != nil {
		return err
	}
	e.totalDeletes++
	e.metrics.RecordDelete(0, 1)
	return nil
}

// Exists reports whether key resolves to a live (non-expired,
// version-matching) record, without mutating engine state.
func (e *Engine) Exists(key string, ts ...float64) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return false, NewErrClosed("exists")
	}
	if key == "" {
		return false, NewErrInvalidKey("exists")
	}

	timestamp := e.resolveTs(ts)

	if row, ok := e.mem.Get(key); ok {
		if !isExpired(row.LastAccessTs, timestamp, e.memoryTTL) && row.SchemaVersion == e.currentVersion() {
			return true, nil
		}
	}

	row, found, err := e.disk.Get(key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if isExpired(row.LastAccessTs, timestamp, e.diskTTL) || row.SchemaVersion != e.currentVersion() {
		return false, nil
	}
	return true, nil
}

// GetMany reads every key in keys, returning only those found. Unlike
// Get, GetMany never refreshes last_access_ts and never promotes a disk
// hit into memory (it is read-only with respect to LRU state).
func (e *Engine) GetMany(keys []string, ts ...float64) (map[string]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, NewErrClosed("get_many")
	}
	for _, key := range keys {
		if key == "" {
			return nil, NewErrInvalidKey("get_many")
		}
	}

	timestamp := e.resolveTs(ts)
	e.totalGets += uint64(len(keys))

	found := make(map[string]any, len(keys))
	var missed []string
	seen := make(map[string]bool, len(keys))

	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true

		row, ok := e.mem.Get(key)
		if !ok {
			missed = append(missed, key)
			continue
		}
		if isExpired(row.LastAccessTs, timestamp, e.memoryTTL) || row.SchemaVersion != e.currentVersion() {
			e.mem.Delete(key)
			missed = append(missed, key)
			continue
		}
		found[key] = row.Value
		e.memoryHits++
	}

	diskRows, err := e.disk.GetMany(missed)
	if err != nil {
		return nil, err
	}

	var staleDiskKeys []string
	for _, key := range missed {
		row, ok := diskRows[key]
		if !ok {
			e.misses++
			continue
		}
		if isExpired(row.LastAccessTs, timestamp, e.diskTTL) || row.SchemaVersion != e.currentVersion() {
			staleDiskKeys = append(staleDiskKeys, key)
			e.misses++
			continue
		}
		value, err := e.model.Decode(row.Payload)
		if err != nil {
			staleDiskKeys = append(staleDiskKeys, key)
			e.misses++
			continue
		}
		found[key] = value
		e.diskHits++
	}

	if len(staleDiskKeys) > 0 {
		if err := e.disk.DeleteMany(staleDiskKeys); err != nil {
			return nil, err
		}
	}

	return found, nil
}

// preparedItem is a put_many entry that has already passed validation
// and encoding, so the batch apply phase cannot fail on client-fault
// errors anymore.
type preparedItem struct {
	key      string
	value    any
	payload  []byte
	byteSize int64
}

// PutMany validates and serializes every entry before any state change;
// any failure aborts the whole batch. All memory upserts are applied,
// then a single-transaction disk upsert of every row.
func (e *Engine) PutMany(items map[string]any, ts ...float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return NewErrClosed("put_many")
	}
	if len(items) == 0 {
		return nil
	}

	prepared := make([]preparedItem, 0, len(items))
	for key, value := range items {
		if key == "" {
			return NewErrInvalidKey("put_many")
		}
		if !e.model.Accepts(value) {
			return NewErrWrongType(key)
		}
		payload, err := e.model.Encode(value)
		if err != nil {
			return NewErrSerializationFailure(key, err)
		}
		prepared = append(prepared, preparedItem{key: key, value: value, payload: payload, byteSize: int64(len(payload))})
	}

	timestamp := e.resolveTs(ts)

	prevRows := make(map[string]*memoryRow, len(prepared))
	hadPrev := make(map[string]bool, len(prepared))
	for _, item := range prepared {
		if row, ok := e.mem.Get(item.key); ok {
			c := *row
			prevRows[item.key] = &c
			hadPrev[item.key] = true
		}
	}

	diskRows := make([]diskRow, 0, len(prepared))
	for _, item := range prepared {
		if item.byteSize <= e.maxItemSizeBytes {
			e.mem.Upsert(item.key, &memoryRow{
				Value:         item.value,
				ByteSize:      item.byteSize,
				LastAccessTs:  timestamp,
				SchemaVersion: e.currentVersion(),
			})
		} else {
			e.mem.Delete(item.key)
		}
		diskRows = append(diskRows, diskRow{
			Key:           item.key,
			Payload:       item.payload,
			ByteSize:      item.byteSize,
			LastAccessTs:  timestamp,
			SchemaVersion: e.currentVersion(),
		})
	}

	if err := e.disk.UpsertMany(diskRows); err != nil {
		for _, item := range prepared {
			if hadPrev[item.key] {
				e.mem.Upsert(item.key, prevRows[item.key])
			} else {
				e.mem.Delete(item.key)
			}
		}
		return err
	}

	e.evictMemory()
	e.evictDisk()
	e.totalPuts += uint64(len(prepared))
	e.metrics.RecordPut(0, len(prepared))
	return nil
}

// DeleteMany removes every key in keys. Duplicate keys within the batch
// are a client error; no state changes before that is detected.
func (e *Engine) DeleteMany(keys []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return NewErrClosed("delete_many")
	}
	if len(keys) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" {
			return NewErrInvalidKey("delete_many")
		}
		if seen[key] {
			return NewErrDuplicateKeyInBatch(key)
		}
		seen[key] = true
	}

	if err := e.disk.DeleteMany(keys); err != nil {
		return err
	}
	for _, key := range keys {
		e.mem.Delete(key)
	}
	e.totalDeletes += uint64(len(keys))
	e.metrics.RecordDelete(0, len(keys))
	return nil
}

// Clear truncates both tiers and resets the current-state gauges.
// Cumulative statistics (hits, misses, puts, ...) are retained.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return NewErrClosed("clear")
	}

	e.mem.Clear()
	return e.disk.Clear()
}

// GetCount returns the number of distinct entries resident in the cache.
// Every memory entry has a matching disk entry (I1), so the disk tier's
// count is already the total; it is never added to the memory count.
func (e *Engine) GetCount() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return 0, NewErrClosed("get_count")
	}
	return e.disk.Count(), nil
}

// GetTotalSize returns the total byte size of entries resident in the
// cache, counted once per key via the disk tier (I1).
func (e *Engine) GetTotalSize() (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return 0, NewErrClosed("get_total_size")
	}
	return e.disk.TotalBytes(), nil
}

// GetStats returns a snapshot of engine statistics.
func (e *Engine) GetStats() (Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return Stats{}, NewErrClosed("get_stats")
	}
	return Stats{
		MemoryHits:         e.memoryHits,
		DiskHits:           e.diskHits,
		Misses:             e.misses,
		MemoryEvictions:    e.memoryEvictions,
		DiskEvictions:      e.diskEvictions,
		TotalPuts:          e.totalPuts,
		TotalGets:          e.totalGets,
		TotalDeletes:       e.totalDeletes,
		CurrentMemoryItems: e.mem.Count(),
		CurrentDiskItems:   e.disk.Count(),
		CurrentMemoryBytes: e.mem.TotalBytes(),
		CurrentDiskBytes:   e.disk.TotalBytes(),
	}, nil
}

// Close releases the disk handle. Idempotent: closing twice is not an
// error. Every operation after Close fails with a Closed error.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.disk.Close()
}

// evictMemory runs the Policy against the memory tier, deleting victims
// and recording eviction statistics. Must be called with e.mu held.
func (e *Engine) evictMemory() {
	victims := selectEvictions(e.mem.Snapshot(), e.mem.Count(), e.mem.TotalBytes(), e.maxMemoryItems, e.maxMemorySizeBytes)
	for _, key := range victims {
		e.mem.Delete(key)
		e.memoryEvictions++
		e.metrics.RecordEviction("memory")
	}
}

// evictDisk runs the Policy against the disk tier. Disk evictions
// cascade: any evicted key is also removed from memory if present (I5).
// Must be called with e.mu held.
func (e *Engine) evictDisk() {
	snapshot, err := e.disk.ScanOrdered()
	if err != nil {
		e.logger.Warn("disk scan for eviction failed", "error", err)
		return
	}

	victims := selectEvictions(snapshot, e.disk.Count(), e.disk.TotalBytes(), e.maxDiskItems, e.maxDiskSizeBytes)
	if len(victims) == 0 {
		return
	}

	if err := e.disk.DeleteMany(victims); err != nil {
		e.logger.Warn("disk eviction failed", "error", err)
		return
	}
	for _, key := range victims {
		e.mem.Delete(key)
		e.diskEvictions++
		e.metrics.RecordEviction("disk")
	}
}
