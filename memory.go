// memory.go: in-process memory index for duocache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

// memoryRow is a Memory Index Row: the logical Cache Entry plus the
// materialized deserialized record. The serialized form is not
// retained; only its size is remembered.
type memoryRow struct {
	Value         any
	ByteSize      int64
	LastAccessTs  float64
	SchemaVersion string
}

// memoryIndex is a keyed mapping from key to memoryRow with O(1) average
// lookup, update, and delete, and running totals of count and bytes.
// It is not safe for concurrent use on its own; the Engine serializes
// all access under its single reader-writer lock.
type memoryIndex struct {
	rows       map[string]*memoryRow
	totalBytes int64
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{rows: make(map[string]*memoryRow)}
}

// Get returns the row for key, if present.
func (m *memoryIndex) Get(key string) (*memoryRow, bool) {
	row, ok := m.rows[key]
	return row, ok
}

// Upsert inserts or replaces the row for key, maintaining the running
// byte total.
func (m *memoryIndex) Upsert(key string, row *memoryRow) {
	if existing, ok := m.rows[key]; ok {
		m.totalBytes += row.ByteSize - existing.ByteSize
	} else {
		m.totalBytes += row.ByteSize
	}
	m.rows[key] = row
}

// Delete removes key, if present, returning whether it existed.
func (m *memoryIndex) Delete(key string) bool {
	existing, ok := m.rows[key]
	if !ok {
		return false
	}
	m.totalBytes -= existing.ByteSize
	delete(m.rows, key)
	return true
}

// Touch refreshes the last-access timestamp of an existing row.
func (m *memoryIndex) Touch(key string, ts float64) {
	if row, ok := m.rows[key]; ok {
		row.LastAccessTs = ts
	}
}

// Count returns the current number of resident rows.
func (m *memoryIndex) Count() int64 { return int64(len(m.rows)) }

// TotalBytes returns the current sum of byte_size across all rows.
func (m *memoryIndex) TotalBytes() int64 { return m.totalBytes }

// Clear removes every row and resets the running byte total.
func (m *memoryIndex) Clear() {
	m.rows = make(map[string]*memoryRow)
	m.totalBytes = 0
}

// Snapshot returns every row's (key, last_access_ts, byte_size) without
// materializing the deserialized value, for the Policy to select
// eviction victims from.
func (m *memoryIndex) Snapshot() []tierSnapshot {
	out := make([]tierSnapshot, 0, len(m.rows))
	for key, row := range m.rows {
		out = append(out, tierSnapshot{Key: key, LastAccessTs: row.LastAccessTs, ByteSize: row.ByteSize})
	}
	return out
}
