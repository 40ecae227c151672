// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package thresholdclock advances a consensus round once a quorum of
// distinct authors have produced blocks at that round.
package thresholdclock

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/bridgeconsensus/blockdag"
	"github.com/luxfi/bridgeconsensus/quorum"
)

// Metrics is the small slice of a node's metric registry the clock writes
// to. It mirrors the teacher's constructor-injected metric.Metrics/
// metric.MultiGatherer dependency rather than reaching for a global
// registry.
type Metrics interface {
	// ObserveQuorumReceiveLatency records the time since the previous quorum
	// crossing (for the first crossing, since the clock was created), in
	// seconds.
	ObserveQuorumReceiveLatency(seconds float64)
}

// noopMetrics discards every observation; used when the caller has no
// metrics registry wired up (tests, simple embeddings).
type noopMetrics struct{}

func (noopMetrics) ObserveQuorumReceiveLatency(float64) {}

// NewHistogramMetrics adapts a metric.Histogram (as constructed from a
// metric.MultiGatherer-backed registry) to the Metrics interface.
func NewHistogramMetrics(h metric.Histogram) Metrics {
	return histogramMetrics{h: h}
}

type histogramMetrics struct{ h metric.Histogram }

func (m histogramMetrics) ObserveQuorumReceiveLatency(seconds float64) {
	if m.h != nil {
		m.h.Observe(seconds)
	}
}

// Clock is a monotonically-non-decreasing clock tracking the DAG round
// currently being built. It ingests BlockRefs already deemed processable by
// the surrounding layer and advances Round once a quorum of distinct
// authors have produced blocks at the current round. It is synchronous,
// non-blocking, and intended to be owned by a single task; it performs no
// internal locking.
type Clock struct {
	committee *quorum.Committee
	metrics   Metrics

	round        blockdag.Round
	aggregator   *quorum.StakeAggregator
	lastQuorumAt time.Time
	nowFn        func() time.Time
}

// New creates a clock starting at round, tracking quorums against
// committee. A nil metrics disables the quorum-latency observation.
func New(round blockdag.Round, committee *quorum.Committee, metrics Metrics) *Clock {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Clock{
		committee:    committee,
		metrics:      metrics,
		round:        round,
		aggregator:   quorum.NewStakeAggregator(quorum.QuorumThreshold),
		lastQuorumAt: time.Now(),
		nowFn:        time.Now,
	}
}

// Round returns the round currently being built.
func (c *Clock) Round() blockdag.Round { return c.round }

// AddBlock ingests a single processed BlockRef and advances Round according
// to three cases on ref.Round versus the current round:
//
//   - less: stale, ignored (quorum was already met at an earlier boundary).
//   - greater: the current round is vacated unconditionally — a block at a
//     higher round is evidence the sender already saw quorum there, so our
//     local quorum evidence for the earlier round is no longer the
//     bottleneck. The aggregator is cleared, seeded with ref.Author, and
//     Round jumps to ref.Round.
//   - equal: ref.Author is added to the aggregator. If that crosses the
//     quorum threshold, the aggregator is cleared, Round advances by one,
//     and a quorum-receipt timestamp is recorded.
func (c *Clock) AddBlock(ref blockdag.BlockRef) {
	switch {
	case ref.Round < c.round:
		return
	case ref.Round > c.round:
		c.aggregator.Clear()
		c.aggregator.Add(ref.Author, c.committee)
		c.round = ref.Round
	default:
		if c.aggregator.Add(ref.Author, c.committee) {
			c.aggregator.Clear()
			c.round++

			now := c.nowFn()
			c.metrics.ObserveQuorumReceiveLatency(now.Sub(c.lastQuorumAt).Seconds())
			c.lastQuorumAt = now
		}
	}
}

// AddBlocks ingests refs in order, equivalent to calling AddBlock on each
// in sequence, and returns the new round iff Round strictly advanced during
// the batch.
func (c *Clock) AddBlocks(refs []blockdag.BlockRef) (newRound blockdag.Round, advanced bool) {
	previous := c.round
	for _, ref := range refs {
		c.AddBlock(ref)
	}
	if c.round > previous {
		return c.round, true
	}
	return 0, false
}

// LastQuorumAt returns the timestamp of the most recent quorum crossing.
func (c *Clock) LastQuorumAt() time.Time { return c.lastQuorumAt }
