// generic.go: type-safe generic wrapper over Engine
//
// Mirrors the teacher's GenericCache[K, V] pattern: a thin generic shell
// around the any-based Engine, so callers needn't perform their own type
// assertions on every Get.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

// TypedEngine is a type-safe wrapper over Engine for a single record
// type T. Every method delegates directly to the underlying Engine; T
// does not change any stored representation, only the Go-facing API.
type TypedEngine[T any] struct {
	engine *Engine
}

// NewTypedEngine wraps engine for record type T. The caller is
// responsible for configuring engine's Model to accept and produce
// values of type T; NewTypedEngine does not validate this.
func NewTypedEngine[T any](engine *Engine) *TypedEngine[T] {
	return &TypedEngine[T]{engine: engine}
}

// Engine returns the underlying untyped Engine, for operations with no
// typed counterpart (GetCount, GetTotalSize, GetStats, Close, ...).
func (t *TypedEngine[T]) Engine() *Engine { return t.engine }

// Get retrieves the record stored under key as a T.
func (t *TypedEngine[T]) Get(key string, ts ...float64) (T, bool, error) {
	var zero T
	value, found, err := t.engine.Get(key, ts...)
	if err != nil || !found {
		return zero, found, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false, NewErrWrongType(key)
	}
	return typed, true, nil
}

// Put stores value under key.
func (t *TypedEngine[T]) Put(key string, value T, ts ...float64) error {
	return t.engine.Put(key, value, ts...)
}

// Delete removes key from both tiers.
func (t *TypedEngine[T]) Delete(key string) error {
	return t.engine.Delete(key)
}

// Exists reports whether key resolves to a live record.
func (t *TypedEngine[T]) Exists(key string, ts ...float64) (bool, error) {
	return t.engine.Exists(key, ts...)
}

// GetMany reads every key in keys, returning only those found.
func (t *TypedEngine[T]) GetMany(keys []string, ts ...float64) (map[string]T, error) {
	raw, err := t.engine.GetMany(keys, ts...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(raw))
	for key, value := range raw {
		typed, ok := value.(T)
		if !ok {
			return nil, NewErrWrongType(key)
		}
		out[key] = typed
	}
	return out, nil
}

// PutMany validates and writes every entry in items as a single batch.
func (t *TypedEngine[T]) PutMany(items map[string]T, ts ...float64) error {
	raw := make(map[string]any, len(items))
	for key, value := range items {
		raw[key] = value
	}
	return t.engine.PutMany(raw, ts...)
}

// DeleteMany removes every key in keys as a single batch.
func (t *TypedEngine[T]) DeleteMany(keys []string) error {
	return t.engine.DeleteMany(keys)
}

// Clear truncates both tiers.
func (t *TypedEngine[T]) Clear() error {
	return t.engine.Clear()
}
