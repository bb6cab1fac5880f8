// hot-reload.go: dynamic budget/TTL reconfiguration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Budgets holds the subset of Config that can be safely changed on a
// running Engine: the per-tier count/byte ceilings, the oversized-item
// threshold, and the per-tier TTLs. DBPath and Model are fixed at Open
// time and cannot be hot-reloaded.
type Budgets struct {
	MaxMemoryItems     int64
	MaxMemorySizeBytes int64
	MaxDiskItems       int64
	MaxDiskSizeBytes   int64
	MaxItemSizeBytes   int64
	MemoryTTL          time.Duration
	DiskTTL            time.Duration
}

// applyBudgets swaps in new budget/TTL values under the engine's lock.
// It never touches resident data: entries that now violate a shrunk
// budget are evicted lazily, by the next Put's Policy pass, not
// proactively by this call.
func (e *Engine) applyBudgets(b Budgets) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxMemoryItems = b.MaxMemoryItems
	e.maxMemorySizeBytes = b.MaxMemorySizeBytes
	e.maxDiskItems = b.MaxDiskItems
	e.maxDiskSizeBytes = b.MaxDiskSizeBytes
	e.maxItemSizeBytes = b.MaxItemSizeBytes
	e.memoryTTL = b.MemoryTTL.Seconds()
	e.diskTTL = b.DiskTTL.Seconds()
}

// budgets reads the current budget/TTL values under the engine's lock.
func (e *Engine) budgets() Budgets {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Budgets{
		MaxMemoryItems:     e.maxMemoryItems,
		MaxMemorySizeBytes: e.maxMemorySizeBytes,
		MaxDiskItems:       e.maxDiskItems,
		MaxDiskSizeBytes:   e.maxDiskSizeBytes,
		MaxItemSizeBytes:   e.maxItemSizeBytes,
		MemoryTTL:          time.Duration(e.memoryTTL * float64(time.Second)),
		DiskTTL:            time.Duration(e.diskTTL * float64(time.Second)),
	}
}

// HotReloader watches a configuration file with Argus and applies budget
// and TTL changes to a running Engine without disrupting cached data.
type HotReloader struct {
	engine  *Engine
	watcher *argus.Watcher
	mu      sync.RWMutex
	current Budgets

	// OnReload is called after a configuration change has been applied.
	// Optional; must be fast and non-blocking.
	OnReload func(old, new Budgets)
}

// HotReloaderOptions configures a HotReloader.
type HotReloaderOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(old, new Budgets)
}

// NewHotReloader creates a hot-reloadable budget/TTL watcher for engine.
// It starts watching the configuration file immediately.
//
// Example configuration file (YAML):
//
//	cache:
//	  max_memory_items: 10000
//	  max_memory_size_bytes: 67108864
//	  max_disk_items: 1000000
//	  max_disk_size_bytes: 1073741824
//	  max_item_size_bytes: 65536
//	  memory_ttl: "5m"
//	  disk_ttl: "24h"
func NewHotReloader(engine *Engine, opts HotReloaderOptions) (*HotReloader, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hr := &HotReloader{
		engine:   engine,
		OnReload: opts.OnReload,
		current:  engine.budgets(),
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hr.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hr.watcher = watcher

	return hr, nil
}

// Start begins watching the configuration file for changes.
func (hr *HotReloader) Start() error {
	if hr.watcher.IsRunning() {
		return nil
	}
	return hr.watcher.Start()
}

// Stop stops watching the configuration file.
func (hr *HotReloader) Stop() error {
	return hr.watcher.Stop()
}

// Current returns the most recently applied Budgets.
func (hr *HotReloader) Current() Budgets {
	hr.mu.RLock()
	defer hr.mu.RUnlock()
	return hr.current
}

func (hr *HotReloader) handleConfigChange(configData map[string]interface{}) {
	hr.mu.Lock()
	old := hr.current
	updated := hr.parseBudgets(configData, old)
	hr.current = updated
	hr.mu.Unlock()

	hr.engine.applyBudgets(updated)

	if hr.OnReload != nil {
		hr.OnReload(old, updated)
	}
}

func parsePositiveInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return int64(v), true
		}
	case int64:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 {
			return int64(v), true
		}
	}
	return 0, false
}

func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(str); err == nil {
			return d, true
		}
	}
	return 0, false
}

// parseBudgets extracts budget/TTL fields from Argus config data, falling
// back to base for any field that is absent or malformed.
func (hr *HotReloader) parseBudgets(data map[string]interface{}, base Budgets) Budgets {
	out := base

	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		if _, hasField := data["max_memory_items"]; hasField {
			section = data
		} else {
			return out
		}
	}

	if v, ok := parsePositiveInt64(section["max_memory_items"]); ok {
		out.MaxMemoryItems = v
	}
	if v, ok := parsePositiveInt64(section["max_memory_size_bytes"]); ok {
		out.MaxMemorySizeBytes = v
	}
	if v, ok := parsePositiveInt64(section["max_disk_items"]); ok {
		out.MaxDiskItems = v
	}
	if v, ok := parsePositiveInt64(section["max_disk_size_bytes"]); ok {
		out.MaxDiskSizeBytes = v
	}
	if v, ok := parsePositiveInt64(section["max_item_size_bytes"]); ok {
		out.MaxItemSizeBytes = v
	}
	if v, ok := parseDuration(section["memory_ttl"]); ok {
		out.MemoryTTL = v
	}
	if v, ok := parseDuration(section["disk_ttl"]); ok {
		out.DiskTTL = v
	}

	return out
}
