// Package common defines shared sentinel errors used across the attachment
// engine and its storage adapters. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors (asset rejected before it is ever queued).
	ErrorUnsupportedType = errors.New("unsupported file type")
	ErrorFileTooLarge    = errors.New("file too large")
	ErrorTooManyFiles    = errors.New("attachment limit reached")

	// Object-storage errors.
	ErrorKeyExists = errors.New("storage key already exists")

	// Commit / consistency errors.
	ErrorTransfer       = errors.New("object storage write failed")
	ErrorPersistence    = errors.New("metadata write failed")
	ErrorReconciliation = errors.New("reconciliation read failed")
	ErrorDeletion       = errors.New("deletion incomplete")
)
