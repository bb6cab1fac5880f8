// duocache-inspect: a read-only inspector for a duocache disk file
//
// Opens the SQLite database behind a duocache Engine's disk tier and
// reports row count, total byte size, and the oldest/newest
// last_access_ts, without touching the memory tier (there isn't one;
// this tool never starts an Engine).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"database/sql"
	"fmt"
	"os"

	flashflags "github.com/agilira/flash-flags"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	flags := flashflags.New("duocache-inspect", "inspect a duocache disk file")
	dbPath := flags.String("db", "", "path to the duocache disk file")
	table := flags.String("table", "records", "name of the disk store table")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: duocache-inspect -db <path> [-table records]")
		os.Exit(2)
	}

	if err := inspect(*dbPath, *table); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func inspect(dbPath, table string) error {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	var count int64
	var totalBytes sql.NullInt64
	var oldest, newest sql.NullFloat64

	query := fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(SUM(byte_size), 0), MIN(last_access_ts), MAX(last_access_ts) FROM %s",
		table)
	if err := db.QueryRow(query).Scan(&count, &totalBytes, &oldest, &newest); err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Printf("table:       %s\n", table)
	fmt.Printf("rows:        %d\n", count)
	fmt.Printf("total bytes: %d\n", totalBytes.Int64)
	if oldest.Valid {
		fmt.Printf("oldest access ts: %.3f\n", oldest.Float64)
		fmt.Printf("newest access ts: %.3f\n", newest.Float64)
	}
	return nil
}
