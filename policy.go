// policy.go: pure eviction and TTL-check functions shared by both tiers
//
// The teacher's single-tier cache picks a probabilistic eviction victim
// by sampling a handful of slots and comparing W-TinyLFU frequency
// estimates (see DESIGN.md). That approach cannot give the deterministic
// tie-break this engine's LRU contract requires, so eviction here is a
// plain, pure sort-and-trim over tier state instead of a frequency
// sketch. The sort is the entire algorithm; there is no sampling.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import "sort"

// tierSnapshot is the minimal per-entry state the Policy needs: enough
// to order entries for eviction without touching the entry's value.
type tierSnapshot struct {
	Key          string
	LastAccessTs float64
	ByteSize     int64
}

// selectEvictions returns, in eviction order, the keys that must be
// removed so that the tier described by rows/currentCount/currentBytes
// satisfies maxCount and maxBytes. It is a pure function: it does not
// mutate rows and has no knowledge of which tier it is evaluating.
//
// Ties in last_access_ts are broken by lexicographically smaller key
// first, so that among entries with identical timestamps the
// lexicographically greater key is the one retained (P4).
func selectEvictions(rows []tierSnapshot, currentCount, currentBytes, maxCount, maxBytes int64) []string {
	if (maxCount < 0 || currentCount <= maxCount) && (maxBytes < 0 || currentBytes <= maxBytes) {
		return nil
	}

	ordered := make([]tierSnapshot, len(rows))
	copy(ordered, rows)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].LastAccessTs != ordered[j].LastAccessTs {
			return ordered[i].LastAccessTs < ordered[j].LastAccessTs
		}
		return ordered[i].Key < ordered[j].Key
	})

	var victims []string
	for _, row := range ordered {
		if (maxCount < 0 || currentCount <= maxCount) && (maxBytes < 0 || currentBytes <= maxBytes) {
			break
		}
		victims = append(victims, row.Key)
		currentCount--
		currentBytes -= row.ByteSize
	}
	return victims
}

// isExpired reports whether an entry last accessed at lastAccessTs has
// exceeded a sliding ttl as of currentTs. A zero ttl means the entry
// never expires by age.
func isExpired(lastAccessTs, currentTs float64, ttlSeconds float64) bool {
	if ttlSeconds <= 0 {
		return false
	}
	return currentTs-lastAccessTs > ttlSeconds
}
