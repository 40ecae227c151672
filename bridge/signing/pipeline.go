// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package signing runs the signature-collection half of the bridge action
// pipeline: it requests a validity threshold of authority signatures for
// each submitted action and, once collected, hands the certified action off
// to the execution pipeline. Failed attempts are retried with exponential
// backoff rather than dropped, up to a fixed attempt ceiling.
package signing

import (
	"context"
	"time"

	"github.com/luxfi/log"
	"golang.org/x/sync/semaphore"

	"github.com/luxfi/bridgeconsensus/bridge/chainclient"
	"github.com/luxfi/bridgeconsensus/bridge/types"
)

// ChannelSize is the buffer depth of both the signing queue and the
// execution queue the pipeline hands certified actions to.
const ChannelSize = 1000

// MaxAttempts is the number of signature-collection attempts made for a
// single action, including the first, before it is dropped and logged for
// manual intervention.
const MaxAttempts = 16

// baseBackoff and the doubling below it realize the schedule described in
// the original design note: 0.1s, 0.2s, 0.4s, ... growing to roughly 27
// minutes by the 15th retry. This is the corrected exponential formula —
// 100ms * 2^attempt — not the bitwise-XOR expression the design this was
// adapted from actually computed.
const baseBackoff = 100 * time.Millisecond

// backoffFor returns the delay before retrying a signature request that has
// already failed attempt times (attempt is zero-based: the value carried on
// the action at the moment of failure).
func backoffFor(attempt uint64) time.Duration {
	return baseBackoff * time.Duration(uint64(1)<<attempt)
}

// ValidityThresholdStake is the stake weight RequestCommitteeSignatures must
// collect before a signature set is considered certified. It is a function
// of the stake table, not a constant, but the pipeline only ever needs the
// resolved value for the committee it was built against.
type ValidityThresholdStake uint64

// Pipeline collects authority signatures for submitted bridge actions and
// forwards certified actions downstream. Its zero value is not usable; use
// New.
type Pipeline struct {
	log       log.Logger
	authAgg   chainclient.AuthorityAggregator
	threshold ValidityThresholdStake
	sem       *semaphore.Weighted

	signingQueue   chan types.BridgeActionExecutionWrapper
	executionQueue chan types.VerifiedCertifiedBridgeAction

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New builds a signing pipeline. maxConcurrentRequests bounds how many
// in-flight signature-collection attempts run at once, so a burst of
// submissions cannot open unbounded concurrent RPC fan-out to the bridge
// committee.
func New(logger log.Logger, authAgg chainclient.AuthorityAggregator, threshold ValidityThresholdStake, maxConcurrentRequests int64) *Pipeline {
	return &Pipeline{
		log:            logger,
		authAgg:        authAgg,
		threshold:      threshold,
		sem:            semaphore.NewWeighted(maxConcurrentRequests),
		signingQueue:   make(chan types.BridgeActionExecutionWrapper, ChannelSize),
		executionQueue: make(chan types.VerifiedCertifiedBridgeAction, ChannelSize),
		now:            time.Now,
		sleep:          sleepOrCancel,
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

// Submit enqueues action for signing, starting at attempt zero. It blocks
// if the signing queue is full.
func (p *Pipeline) Submit(ctx context.Context, action types.BridgeAction) error {
	wrapper := types.BridgeActionExecutionWrapper{Action: action, AttemptCount: 0}
	select {
	case p.signingQueue <- wrapper:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecutionQueue exposes the channel certified actions are delivered on,
// for the execution pipeline to consume.
func (p *Pipeline) ExecutionQueue() <-chan types.VerifiedCertifiedBridgeAction {
	return p.executionQueue
}

// Run consumes the signing queue until ctx is done, dispatching each action
// to its own goroutine (bounded by the pipeline's semaphore) so a slow
// signature collection for one action never blocks the others.
func (p *Pipeline) Run(ctx context.Context) {
	p.log.Info("starting bridge signature aggregation loop")
	for {
		select {
		case wrapper, ok := <-p.signingQueue:
			if !ok {
				return
			}
			if err := p.sem.Acquire(ctx, 1); err != nil {
				return
			}
			go func() {
				defer p.sem.Release(1)
				p.requestSignature(ctx, wrapper)
			}()
		case <-ctx.Done():
			return
		}
	}
}

func (p *Pipeline) requestSignature(ctx context.Context, wrapper types.BridgeActionExecutionWrapper) {
	certificate, err := p.authAgg.RequestCommitteeSignatures(ctx, wrapper.Action, uint64(p.threshold))
	if err == nil {
		select {
		case p.executionQueue <- certificate:
		case <-ctx.Done():
		}
		return
	}

	p.log.Warn("failed to collect signatures for bridge action",
		log.Uint64("attempt", wrapper.AttemptCount),
		log.Err(err))

	if wrapper.AttemptCount >= MaxAttempts-1 {
		p.log.Error("manual intervention is required: bridge action exhausted signature collection attempts",
			log.Uint64("attempts", wrapper.AttemptCount+1),
			log.Err(err))
		return
	}

	delay := backoffFor(wrapper.AttemptCount)
	p.sleep(ctx, delay)
	if ctx.Err() != nil {
		return
	}

	next := types.BridgeActionExecutionWrapper{Action: wrapper.Action, AttemptCount: wrapper.AttemptCount + 1}
	select {
	case p.signingQueue <- next:
	case <-ctx.Done():
	}
}
