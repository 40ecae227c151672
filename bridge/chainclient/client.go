// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chainclient defines the small set of external collaborators the
// bridge executor depends on: the destination-chain RPC surface used to
// submit and observe transactions, the authority aggregator used to
// collect signatures, and the closed error taxonomy that lets the executor
// branch on failure class without string-matching error messages.
package chainclient

import (
	"context"

	"github.com/luxfi/bridgeconsensus/bridge/gas"
	"github.com/luxfi/bridgeconsensus/bridge/types"
)

// SignedTransaction is an opaque, already-signed transaction ready for
// submission. Its shape is deliberately left to the concrete chain
// integration: the executor only ever threads it from BuildTransaction's
// output to ExecuteTransactionBlockWithEffects's input.
type SignedTransaction interface{}

// EffectsStatus classifies the outcome reported by a transaction's
// effects once it has executed on chain, independent of any RPC-layer
// error.
type EffectsStatus int

const (
	// EffectsSuccess means the transaction executed and its side effects
	// (including removing the action from the WAL) should be applied.
	EffectsSuccess EffectsStatus = iota
	// EffectsFailure means the transaction executed but aborted on chain
	// (e.g. a Move abort). Manual intervention is required; the action is
	// not retried automatically.
	EffectsFailure
)

// Effects is the minimal slice of on-chain transaction effects the
// executor inspects: whether execution succeeded, and the gas object's
// resulting reference and owner (used to advance the gas manager without a
// second round-trip).
type Effects interface {
	Status() EffectsStatus
	FailureError() string
	GasObjectRefAndOwner() (gas.ObjectRef, gas.Owner)
}

// ChainClient is the destination-chain RPC surface the executor submits
// transactions through and refreshes gas data from.
type ChainClient interface {
	// ExecuteTransactionBlockWithEffects submits tx and blocks until its
	// effects are known. A non-nil error is always an *ExecError.
	ExecuteTransactionBlockWithEffects(ctx context.Context, tx SignedTransaction) (Effects, error)

	// GetGasObjectRefAndOwner resolves the current on-chain reference and
	// owner of a gas object directly, bypassing effects — used to recover
	// from a stale gas reference.
	GetGasObjectRefAndOwner(ctx context.Context, id gas.ObjectID) (gas.ObjectRef, gas.Owner, error)
}

// AuthorityRPCClient is a single bridge authority's signing endpoint.
type AuthorityRPCClient interface {
	// RequestSignature asks the authority to sign action, returning its
	// signature share once the authority has independently validated the
	// action.
	RequestSignature(ctx context.Context, action types.BridgeAction) (types.AuthoritySignature, error)
}

// AuthorityAggregator fans a signature request for an action out to every
// authority in the bridge committee and combines the responses into a
// certified action once the requested stake threshold is met.
type AuthorityAggregator interface {
	// RequestCommitteeSignatures collects signatures for action from the
	// committee until thresholdStake worth of stake has signed, or returns
	// an error if that cannot be achieved (e.g. too many authorities
	// refused or were unreachable).
	RequestCommitteeSignatures(ctx context.Context, action types.BridgeAction, thresholdStake uint64) (types.VerifiedCertifiedBridgeAction, error)
}
