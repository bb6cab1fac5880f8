// disk.go: embedded SQL-backed disk store for duocache
//
// The disk tier is a single-file SQLite database (or an ephemeral
// in-memory database when the configured path is ":memory:"), accessed
// through database/sql and the mattn/go-sqlite3 driver. All mutating
// operations run inside a transaction; multi-row mutations share one
// transaction so they commit or roll back as a unit.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const diskTableName = "records"

var diskSchemaSQL = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key            TEXT PRIMARY KEY NOT NULL,
	payload        BLOB NOT NULL,
	byte_size      INTEGER NOT NULL,
	last_access_ts REAL NOT NULL,
	schema_version TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%s_last_access_ts ON %s(last_access_ts);
`, diskTableName, diskTableName, diskTableName)

// diskRow mirrors one persisted row.
type diskRow struct {
	Key           string
	Payload       []byte
	ByteSize      int64
	LastAccessTs  float64
	SchemaVersion string
}

// diskStore is the embedded SQL-backed keyed blob store described in
// spec §4.3. It is not safe for concurrent use on its own; the Engine
// serializes all access under its single reader-writer lock.
type diskStore struct {
	db         *sql.DB
	count      int64
	totalBytes int64
}

// openDiskStore opens (and idempotently initializes the schema of) the
// disk store at path. ":memory:" selects an ephemeral, process-local
// database.
func openDiskStore(path string) (*diskStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewErrDiskFailure("open", err)
	}

	// A single physical connection keeps the whole tier's state visible
	// to every query regardless of driver-level connection pooling, and
	// is required for ":memory:" databases (each connection otherwise
	// gets its own private database).
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(diskSchemaSQL); err != nil {
		db.Close()
		return nil, NewErrDiskFailure("create schema", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, NewErrDiskFailure("enable wal", err)
		}
	}

	ds := &diskStore{db: db}
	if err := ds.recomputeAggregates(); err != nil {
		db.Close()
		return nil, err
	}
	return ds, nil
}

func (d *diskStore) recomputeAggregates() error {
	row := d.db.QueryRow(fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(SUM(byte_size), 0) FROM %s", diskTableName))
	var count, total int64
	if err := row.Scan(&count, &total); err != nil {
		return NewErrDiskFailure("recompute aggregates", err)
	}
	d.count = count
	d.totalBytes = total
	return nil
}

// Count reports the current row count.
func (d *diskStore) Count() int64 { return d.count }

// TotalBytes reports the current sum of byte_size across all rows.
func (d *diskStore) TotalBytes() int64 { return d.totalBytes }

// Get reads a single row by key.
func (d *diskStore) Get(key string) (diskRow, bool, error) {
	row := d.db.QueryRow(fmt.Sprintf(
		"SELECT key, payload, byte_size, last_access_ts, schema_version FROM %s WHERE key = ?",
		diskTableName), key)

	var r diskRow
	err := row.Scan(&r.Key, &r.Payload, &r.ByteSize, &r.LastAccessTs, &r.SchemaVersion)
	if err == sql.ErrNoRows {
		return diskRow{}, false, nil
	}
	if err != nil {
		return diskRow{}, false, NewErrDiskFailure("get", err)
	}
	return r, true, nil
}

// GetMany reads every row among keys in a single query.
func (d *diskStore) GetMany(keys []string) (map[string]diskRow, error) {
	out := make(map[string]diskRow, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = "?"
		args[i] = k
	}
	query := fmt.Sprintf(
		"SELECT key, payload, byte_size, last_access_ts, schema_version FROM %s WHERE key IN (%s)",
		diskTableName, strings.Join(placeholders, ","))

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, NewErrDiskFailure("get_many", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r diskRow
		if err := rows.Scan(&r.Key, &r.Payload, &r.ByteSize, &r.LastAccessTs, &r.SchemaVersion); err != nil {
			return nil, NewErrDiskFailure("get_many scan", err)
		}
		out[r.Key] = r
	}
	if err := rows.Err(); err != nil {
		return nil, NewErrDiskFailure("get_many rows", err)
	}
	return out, nil
}

// Upsert writes a single row inside its own transaction.
func (d *diskStore) Upsert(row diskRow) error {
	return d.UpsertMany([]diskRow{row})
}

// UpsertMany writes every row inside a single transaction, updating the
// in-memory aggregates only after a successful commit.
func (d *diskStore) UpsertMany(rows []diskRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return NewErrDiskFailure("upsert_many begin", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (key, payload, byte_size, last_access_ts, schema_version)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   payload = excluded.payload,
		   byte_size = excluded.byte_size,
		   last_access_ts = excluded.last_access_ts,
		   schema_version = excluded.schema_version`, diskTableName))
	if err != nil {
		tx.Rollback()
		return NewErrDiskFailure("upsert_many prepare", err)
	}
	defer stmt.Close()

	var deltaCount, deltaBytes int64
	for _, row := range rows {
		existing, existed, err := d.getTx(tx, row.Key)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := stmt.Exec(row.Key, row.Payload, row.ByteSize, row.LastAccessTs, row.SchemaVersion); err != nil {
			tx.Rollback()
			return NewErrDiskFailure("upsert_many exec", err)
		}
		if existed {
			deltaBytes += row.ByteSize - existing.ByteSize
		} else {
			deltaCount++
			deltaBytes += row.ByteSize
		}
	}

	if err := tx.Commit(); err != nil {
		return NewErrDiskFailure("upsert_many commit", err)
	}

	d.count += deltaCount
	d.totalBytes += deltaBytes
	return nil
}

func (d *diskStore) getTx(tx *sql.Tx, key string) (diskRow, bool, error) {
	row := tx.QueryRow(fmt.Sprintf(
		"SELECT key, payload, byte_size, last_access_ts, schema_version FROM %s WHERE key = ?",
		diskTableName), key)
	var r diskRow
	err := row.Scan(&r.Key, &r.Payload, &r.ByteSize, &r.LastAccessTs, &r.SchemaVersion)
	if err == sql.ErrNoRows {
		return diskRow{}, false, nil
	}
	if err != nil {
		return diskRow{}, false, NewErrDiskFailure("upsert_many lookup", err)
	}
	return r, true, nil
}

// Delete removes a single row inside its own transaction.
func (d *diskStore) Delete(key string) error {
	return d.DeleteMany([]string{key})
}

// DeleteMany removes every row among keys inside a single transaction.
func (d *diskStore) DeleteMany(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return NewErrDiskFailure("delete_many begin", err)
	}

	var deltaCount, deltaBytes int64
	stmt, err := tx.Prepare(fmt.Sprintf("DELETE FROM %s WHERE key = ?", diskTableName))
	if err != nil {
		tx.Rollback()
		return NewErrDiskFailure("delete_many prepare", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		existing, existed, err := d.getTx(tx, key)
		if err != nil {
			tx.Rollback()
			return err
		}
		if !existed {
			continue
		}
		if _, err := stmt.Exec(key); err != nil {
			tx.Rollback()
			return NewErrDiskFailure("delete_many exec", err)
		}
		deltaCount++
		deltaBytes += existing.ByteSize
	}

	if err := tx.Commit(); err != nil {
		return NewErrDiskFailure("delete_many commit", err)
	}

	d.count -= deltaCount
	d.totalBytes -= deltaBytes
	return nil
}

// ScanOrdered returns every row's (key, last_access_ts, byte_size),
// ordered by last_access_ts ascending and key ascending, which is
// exactly the order the Policy needs to pick eviction victims.
func (d *diskStore) ScanOrdered() ([]tierSnapshot, error) {
	rows, err := d.db.Query(fmt.Sprintf(
		"SELECT key, last_access_ts, byte_size FROM %s ORDER BY last_access_ts ASC, key ASC", diskTableName))
	if err != nil {
		return nil, NewErrDiskFailure("scan", err)
	}
	defer rows.Close()

	var out []tierSnapshot
	for rows.Next() {
		var s tierSnapshot
		if err := rows.Scan(&s.Key, &s.LastAccessTs, &s.ByteSize); err != nil {
			return nil, NewErrDiskFailure("scan rows", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, NewErrDiskFailure("scan rows", err)
	}
	return out, nil
}

// Clear truncates the table and resets the aggregates.
func (d *diskStore) Clear() error {
	if _, err := d.db.Exec(fmt.Sprintf("DELETE FROM %s", diskTableName)); err != nil {
		return NewErrDiskFailure("clear", err)
	}
	d.count = 0
	d.totalBytes = 0
	return nil
}

// Close releases the underlying database handle.
func (d *diskStore) Close() error {
	if err := d.db.Close(); err != nil {
		return NewErrDiskFailure("close", err)
	}
	return nil
}
