// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chainclient

import "fmt"

// Class is a closed taxonomy of reasons a chain interaction can fail. The
// executor branches on Class, never on an error string, so adding a new
// failure mode is a compile-time decision rather than a pattern the
// executor might silently mishandle.
type Class uint32

const (
	// ClassFatal means the node is misconfigured in a way no retry can
	// fix (e.g. an invalid signing key). The process should not continue.
	ClassFatal Class = iota

	// ClassDeterministic means the transaction executed and was rejected
	// on chain (a Move abort or similar). Retrying the same transaction
	// would fail again; manual intervention is required.
	ClassDeterministic

	// ClassTransient means the RPC call itself failed (network error,
	// node overloaded) with no indication the transaction was rejected on
	// its merits. Retrying is appropriate.
	ClassTransient

	// ClassStaleGas means submission failed because the locally tracked
	// gas object reference no longer matches its on-chain version. The
	// gas reference should be refreshed and the transaction retried.
	ClassStaleGas

	// ClassInsufficientGas means the gas object does not hold enough
	// balance to cover the transaction. This requires a human to top up
	// the gas object; automatic retry would just fail again.
	ClassInsufficientGas
)

func (c Class) String() string {
	switch c {
	case ClassFatal:
		return "Fatal"
	case ClassDeterministic:
		return "Deterministic"
	case ClassTransient:
		return "Transient"
	case ClassStaleGas:
		return "StaleGas"
	case ClassInsufficientGas:
		return "InsufficientGas"
	default:
		return "Invalid class"
	}
}

// Retryable reports whether the executor should resubmit after this class
// of error, as opposed to logging and waiting for manual intervention.
func (c Class) Retryable() bool {
	switch c {
	case ClassTransient, ClassStaleGas:
		return true
	default:
		return false
	}
}

// ExecError is the error type every ChainClient method returns. Its Class
// tells the executor which branch of the effect-handling state machine to
// take without needing to inspect Err's message.
type ExecError struct {
	Class Class
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// NewExecError constructs an ExecError of the given class wrapping err.
func NewExecError(class Class, err error) *ExecError {
	return &ExecError{Class: class, Err: err}
}
