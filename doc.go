// Package duocache provides a thread-safe, two-tier cache over a single
// versioned record type: a bounded in-process memory index backed by an
// embedded SQL disk store.
//
// # Overview
//
// duocache is built for workloads that want memory-speed reads for a hot
// working set while retaining a much larger, durable tier on disk:
//
//   - Write-through Put: every write lands on disk immediately, and in
//     memory too unless the record is too large for the memory tier.
//   - Read-through Get: a disk hit is promoted into memory so the next
//     read is a memory hit.
//   - Independent budgets per tier: count and byte ceilings for memory,
//     and separately for disk, each with its own LRU eviction policy.
//   - Independent, sliding TTLs per tier.
//   - Schema-versioned records: a stored row whose schema_version no
//     longer matches the registered Model is treated as a miss and
//     deleted, never migrated.
//
// # Quick Start
//
//	type user struct {
//	    ID   int
//	    Name string
//	}
//
//	engine, err := duocache.Open(duocache.Config{
//	    DBPath:             "cache.db",
//	    Model:              duocache.NewJSONCodec[user]("v1"),
//	    MaxMemoryItems:     10_000,
//	    MaxMemorySizeBytes: 64 << 20,
//	    MaxDiskItems:       1_000_000,
//	    MaxDiskSizeBytes:   1 << 30,
//	    MaxItemSizeBytes:   1 << 16,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	typed := duocache.NewTypedEngine[user](engine)
//	typed.Put("user:123", user{ID: 123, Name: "Alice"})
//
//	if u, found, _ := typed.Get("user:123"); found {
//	    fmt.Printf("User: %s\n", u.Name)
//	}
//
// # Oversized Items
//
// A record whose encoded size exceeds MaxItemSizeBytes is routed to disk
// only: it is never written to memory, and a disk hit for it is never
// promoted. It is served from disk on every read, and still subject to
// the disk tier's TTL and eviction policy like any other record.
//
// # Eviction
//
// Both tiers use least-recently-used eviction against their own count
// and byte budgets. Ties in last_access_ts are broken by key, smallest
// first, so the lexicographically greatest of two equally-stale keys
// survives. Eviction on the disk tier cascades: any key evicted from
// disk is also removed from memory, since memory never holds data that
// has already been dropped from its backing tier.
//
// # Statistics
//
//	stats, _ := engine.GetStats()
//	fmt.Printf("hit ratio: %.2f%%\n", stats.HitRatio()*100)
//	fmt.Printf("memory: %d items, disk: %d items\n",
//	    stats.CurrentMemoryItems, stats.CurrentDiskItems)
//
// # Hot Reload
//
// Budget and TTL knobs can be hot-reloaded from a config file using
// argus, without restarting the process or losing cached data. See
// HotReloader.
//
// # Observability
//
// The core duocache package has zero OpenTelemetry dependencies. The
// duocache/otel package is a separate module implementing
// MetricsCollector on top of OpenTelemetry metrics, for Prometheus and
// compatible exporters.
//
// # Error Handling
//
// duocache uses structured errors with stable error codes:
//
//	if _, _, err := engine.Get("user:123"); err != nil {
//	    if duocache.IsDiskFailure(err) {
//	        // infrastructure problem, may be retryable
//	    }
//	}
//
// Predicates IsInvalidKey, IsWrongType, IsSerializationFailure, IsClosed,
// IsDiskFailure and IsRetryable classify the common error kinds.
// GetErrorCode returns the code of any error duocache returns, including
// ErrCodeDuplicateKeyInBatch and ErrCodeInvalidConfig, which have no
// predicate of their own.
//
// # License
//
// See LICENSE file in the repository.
package duocache
