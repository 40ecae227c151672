// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package executor runs the on-chain execution half of the bridge action
// pipeline: it builds, signs, and submits a transaction for each certified
// action the signing pipeline produces, then branches on the transaction's
// outcome to decide whether to remove the action from the write-ahead log,
// retry it, or surface it for manual intervention.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/bridgeconsensus/bridge/chainclient"
	"github.com/luxfi/bridgeconsensus/bridge/gas"
	"github.com/luxfi/bridgeconsensus/bridge/types"
	"github.com/luxfi/bridgeconsensus/bridge/wal"
)

// staleGasRetryDelay is how long the pipeline waits after refreshing a
// stale gas reference before resubmitting, giving the chain time to settle
// on the object's latest version.
const staleGasRetryDelay = 500 * time.Millisecond

// BuildTransaction constructs a signed, ready-to-submit transaction
// spending from ref. It is injected rather than hardcoded so the pipeline
// stays agnostic to any particular destination chain's transaction format.
type BuildTransaction func(ref gas.ObjectRef) (chainclient.SignedTransaction, error)

// Pipeline executes certified bridge actions strictly sequentially: one
// transaction in flight at a time per instance, matching the single gas
// object it spends from. Concurrency across actions is achieved by running
// multiple Pipelines against disjoint gas objects, not by parallelizing a
// single Pipeline.
type Pipeline struct {
	log     log.Logger
	client  chainclient.ChainClient
	gas     *gas.Manager
	store   wal.PendingActionStore
	build   BuildTransaction
	sleep   func(ctx context.Context, d time.Duration)

	queue chan types.VerifiedCertifiedBridgeAction
}

// New builds an execution pipeline. queueSize is typically signing.ChannelSize
// when wired directly to a signing.Pipeline's execution queue.
func New(logger log.Logger, client chainclient.ChainClient, gasManager *gas.Manager, store wal.PendingActionStore, build BuildTransaction, queueSize int) *Pipeline {
	return &Pipeline{
		log:    logger,
		client: client,
		gas:    gasManager,
		store:  store,
		build:  build,
		sleep:  sleepOrCancel,
		queue:  make(chan types.VerifiedCertifiedBridgeAction, queueSize),
	}
}

func sleepOrCancel(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Enqueue submits a certified action for execution. It blocks if the queue
// is full.
func (p *Pipeline) Enqueue(ctx context.Context, certificate types.VerifiedCertifiedBridgeAction) error {
	select {
	case p.queue <- certificate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes certified actions until ctx is done, executing them
// strictly one at a time.
func (p *Pipeline) Run(ctx context.Context) {
	p.log.Info("starting bridge onchain execution loop")
	for {
		select {
		case certificate, ok := <-p.queue:
			if !ok {
				return
			}
			p.executeOne(ctx, certificate)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) executeOne(ctx context.Context, certificate types.VerifiedCertifiedBridgeAction) {
	ref := p.gas.Current()
	tx, err := p.build(ref)
	if err != nil {
		p.log.Error("failed to build bridge execution transaction", log.Err(err))
		return
	}

	effects, err := p.client.ExecuteTransactionBlockWithEffects(ctx, tx)
	if err != nil {
		p.handleExecutionError(ctx, err, certificate)
		return
	}
	p.handleEffects(certificate, effects)
}

func (p *Pipeline) handleEffects(certificate types.VerifiedCertifiedBridgeAction, effects chainclient.Effects) {
	switch effects.Status() {
	case chainclient.EffectsSuccess:
		if err := p.store.RemovePendingActions([]types.ActionDigest{certificate.Digest()}); err != nil {
			p.log.Error("failed to remove executed action from write-ahead log", log.Err(err))
		}
	case chainclient.EffectsFailure:
		// The transaction executed and was rejected on chain. Retrying
		// would fail again; surface for manual intervention and leave the
		// action in the WAL so an operator can inspect it after restart.
		p.log.Error("bridge transaction executed and failed; manual intervention required",
			log.Stringer("failure", stringerFunc(effects.FailureError)))
	}
	p.gas.RefreshFromEffects(effects)
}

func (p *Pipeline) handleExecutionError(ctx context.Context, err error, certificate types.VerifiedCertifiedBridgeAction) {
	class := chainclient.ClassTransient
	if execErr, ok := asExecError(err); ok {
		class = execErr.Class
	}

	switch class {
	case chainclient.ClassStaleGas:
		p.log.Error("bridge transaction failed due to stale gas data; refreshing", log.Err(err))
		if refreshErr := p.gas.RefreshByLookup(ctx); refreshErr != nil {
			p.log.Error("failed to refresh gas object after stale gas error", log.Err(refreshErr))
		}
		// Re-enqueue in a detached goroutine so the executor's own
		// sequential loop never deadlocks waiting on itself.
		go func() {
			p.sleep(ctx, staleGasRetryDelay)
			if ctx.Err() != nil {
				return
			}
			if err := p.Enqueue(ctx, certificate); err != nil {
				p.log.Error("failed to re-enqueue action after stale gas refresh", log.Err(err))
			}
		}()

	case chainclient.ClassInsufficientGas:
		// Manual intervention is needed to top up the gas object. Do not
		// retry: it would fail again until a human acts.
		p.log.Error("manual intervention is needed: insufficient gas to execute bridge transaction", log.Err(err))

	case chainclient.ClassDeterministic:
		// The transaction was rejected on chain; resubmitting it would be
		// rejected again. Leave it in the WAL for manual intervention.
		p.log.Error("manual intervention is needed: bridge transaction was rejected on chain", log.Err(err))

	case chainclient.ClassFatal:
		// A fatal error signals a broken protocol invariant (e.g. the chain
		// client detected state the executor must never observe). Retrying
		// or continuing past it would only compound the damage, so the
		// process aborts here the same way a broken gas-ownership invariant
		// does in bridge/gas.
		p.log.Fatal("fatal error executing bridge transaction; aborting", log.Err(err))
		panic(fmt.Sprintf("fatal bridge execution error: %v", err))

	default:
		// Transient or unclassified RPC failure: re-enqueue and try again,
		// detached so the sequential loop does not deadlock on itself.
		p.log.Error("bridge transaction was not executed due to error; re-enqueueing", log.Err(err))
		go func() {
			if err := p.Enqueue(ctx, certificate); err != nil {
				p.log.Error("failed to re-enqueue action after execution error", log.Err(err))
			}
		}()
	}
}

func asExecError(err error) (*chainclient.ExecError, bool) {
	execErr, ok := err.(*chainclient.ExecError)
	return execErr, ok
}

type stringerFunc func() string

func (f stringerFunc) String() string { return f() }
