// errors.go: structured error handling for duocache engine operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error
// codes for all engine operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package duocache

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for duocache engine operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig errors.ErrorCode = "DUOCACHE_INVALID_CONFIG"

	// Client-fault operation errors (2xxx)
	ErrCodeInvalidKey           errors.ErrorCode = "DUOCACHE_INVALID_KEY"
	ErrCodeWrongType            errors.ErrorCode = "DUOCACHE_WRONG_TYPE"
	ErrCodeSerializationFailure errors.ErrorCode = "DUOCACHE_SERIALIZATION_FAILURE"
	ErrCodeDuplicateKeyInBatch  errors.ErrorCode = "DUOCACHE_DUPLICATE_KEY_IN_BATCH"
	ErrCodeClosed               errors.ErrorCode = "DUOCACHE_CLOSED"

	// Recovered-locally read errors (3xxx) -- never surfaced to callers;
	// the engine deletes the stale or corrupt row and counts a miss.
	ErrCodeDeserializationFailure errors.ErrorCode = "DUOCACHE_DESERIALIZATION_FAILURE"
	ErrCodeSchemaMismatch         errors.ErrorCode = "DUOCACHE_SCHEMA_MISMATCH"

	// Infrastructure errors (4xxx)
	ErrCodeDiskFailure errors.ErrorCode = "DUOCACHE_DISK_FAILURE"

	// Internal errors (5xxx)
	ErrCodeInternalError errors.ErrorCode = "DUOCACHE_INTERNAL_ERROR"
)

const (
	msgInvalidConfig          = "invalid engine configuration"
	msgInvalidKey             = "key is empty or malformed"
	msgWrongType              = "value is not an instance of the registered record type"
	msgSerializationFailure   = "record could not be serialized"
	msgDuplicateKeyInBatch    = "duplicate key within a single batch"
	msgClosed                 = "engine is closed"
	msgDeserializationFailure = "stored payload could not be deserialized"
	msgSchemaMismatch         = "stored schema version does not match the registered version"
	msgDiskFailure            = "disk store operation failed"
	msgInternalError          = "internal engine error"
)

// NewErrInvalidConfig creates an error for a malformed Config.
func NewErrInvalidConfig(reason string) error {
	return errors.NewWithField(ErrCodeInvalidConfig, msgInvalidConfig, "reason", reason)
}

// NewErrInvalidKey creates an error for an empty or malformed key.
func NewErrInvalidKey(operation string) error {
	return errors.NewWithField(ErrCodeInvalidKey, msgInvalidKey, "operation", operation)
}

// NewErrWrongType creates an error when a put value fails the registered
// model's type-identity check.
func NewErrWrongType(key string) error {
	return errors.NewWithField(ErrCodeWrongType, msgWrongType, "key", key)
}

// NewErrSerializationFailure wraps a Codec.Encode failure.
func NewErrSerializationFailure(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeSerializationFailure, msgSerializationFailure).
		WithContext("key", key)
}

// NewErrDuplicateKeyInBatch creates an error for a repeated key within a
// single put_many/delete_many call.
func NewErrDuplicateKeyInBatch(key string) error {
	return errors.NewWithField(ErrCodeDuplicateKeyInBatch, msgDuplicateKeyInBatch, "key", key)
}

// NewErrClosed creates an error for operations invoked after Close.
func NewErrClosed(operation string) error {
	return errors.NewWithField(ErrCodeClosed, msgClosed, "operation", operation)
}

// newErrDeserializationFailure wraps a Codec.Decode failure on a stored
// row. Never surfaced to callers; the row is deleted and the access
// recorded as a miss.
func newErrDeserializationFailure(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeDeserializationFailure, msgDeserializationFailure).
		WithContext("key", key)
}

// newErrSchemaMismatch marks a stored row whose schema_version no longer
// matches the registered model.
func newErrSchemaMismatch(key, storedVersion, currentVersion string) error {
	return errors.NewWithContext(ErrCodeSchemaMismatch, msgSchemaMismatch, map[string]interface{}{
		"key":              key,
		"stored_version":   storedVersion,
		"current_version":  currentVersion,
	})
}

// NewErrDiskFailure wraps a disk store error. Public operations return it
// to the caller, with two exceptions: a failure in the disk eviction pass
// that follows a write is only logged, and a failed delete of an expired,
// stale or corrupt row during Get is ignored. The spec requires any
// in-flight transaction to roll back, so this never leaves a batch
// partially applied.
func NewErrDiskFailure(operation string, cause error) error {
	return errors.Wrap(cause, ErrCodeDiskFailure, msgDiskFailure).
		WithContext("operation", operation).
		AsRetryable()
}

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// IsInvalidKey reports whether err is an InvalidKey error.
func IsInvalidKey(err error) bool { return errors.HasCode(err, ErrCodeInvalidKey) }

// IsWrongType reports whether err is a WrongType error.
func IsWrongType(err error) bool { return errors.HasCode(err, ErrCodeWrongType) }

// IsSerializationFailure reports whether err is a SerializationFailure error.
func IsSerializationFailure(err error) bool {
	return errors.HasCode(err, ErrCodeSerializationFailure)
}

// IsClosed reports whether err indicates the engine has been closed.
func IsClosed(err error) bool { return errors.HasCode(err, ErrCodeClosed) }

// IsDiskFailure reports whether err is a DiskFailure error.
func IsDiskFailure(err error) bool { return errors.HasCode(err, ErrCodeDiskFailure) }

// IsRetryable reports whether err can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from err, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts structured context from err, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var de *errors.Error
	if goerrors.As(err, &de) {
		return de.Context
	}
	return nil
}
