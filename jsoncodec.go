// jsoncodec.go: a JSON-backed RecordCodec
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package duocache

import (
	"encoding/json"
	"reflect"
)

// JSONCodec is a RecordCodec that serializes values of a single Go type T
// with encoding/json. It is the engine's reference Model implementation,
// suitable whenever a record type marshals cleanly through encoding/json
// and an exact struct-shape version string is enough to detect drift.
type JSONCodec[T any] struct {
	version string
	rtype   reflect.Type
}

// NewJSONCodec returns a JSONCodec for T, tagged with the given schema
// version string.
func NewJSONCodec[T any](version string) *JSONCodec[T] {
	var zero T
	return &JSONCodec[T]{version: version, rtype: reflect.TypeOf(zero)}
}

// SchemaVersion implements RecordCodec.
func (c *JSONCodec[T]) SchemaVersion() string { return c.version }

// Accepts implements RecordCodec by requiring value to be exactly T.
func (c *JSONCodec[T]) Accepts(value any) bool {
	_, ok := value.(T)
	return ok
}

// Encode implements RecordCodec.
func (c *JSONCodec[T]) Encode(value any) ([]byte, error) {
	typed, ok := value.(T)
	if !ok {
		return nil, NewErrWrongType("")
	}
	return json.Marshal(typed)
}

// Decode implements RecordCodec.
func (c *JSONCodec[T]) Decode(data []byte) (any, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateSize implements RecordCodec by encoding the value. Callers with
// a cheaper estimate for their record type should supply their own Model
// instead.
func (c *JSONCodec[T]) EstimateSize(value any) int {
	payload, err := c.Encode(value)
	if err != nil {
		return 0
	}
	return len(payload)
}
