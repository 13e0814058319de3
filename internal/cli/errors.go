// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a runtime failure
	ExitGeneralError = 1
	// ExitUsageError indicates invalid flags or arguments
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrNoTargets is returned when no dataset or query is given.
var ErrNoTargets = errors.New("at least one file or query is required")

// UsageError is a command-line mistake. It maps to ExitUsageError.
type UsageError struct {
	Reason string
	Err    error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usage: %s: %v", e.Reason, e.Err)
	}
	return "usage: " + e.Reason
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// NewUsageError wraps err as a usage error with a reason.
func NewUsageError(reason string, err error) *UsageError {
	return &UsageError{Reason: reason, Err: err}
}

// IsUsageError reports whether err is, or wraps, a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsUsageError(err):
		return ExitUsageError
	default:
		return ExitGeneralError
	}
}
