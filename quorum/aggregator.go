// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum

import "github.com/luxfi/bridgeconsensus/blockdag"

// Threshold picks one of a committee's two canonical stake thresholds. It
// is a strategy, not a value, so a StakeAggregator can be built for either
// rule without duplicating the accumulation logic.
type Threshold interface {
	ThresholdStake(c *Committee) Stake
}

type quorumThreshold struct{}

func (quorumThreshold) ThresholdStake(c *Committee) Stake { return c.QuorumThresholdStake() }

type validityThreshold struct{}

func (validityThreshold) ThresholdStake(c *Committee) Stake { return c.ValidityThresholdStake() }

// QuorumThreshold requires >= 2f+1 stake (supermajority).
var QuorumThreshold Threshold = quorumThreshold{}

// ValidityThreshold requires >= f+1 stake (at least one honest authority).
var ValidityThreshold Threshold = validityThreshold{}

// StakeAggregator accumulates distinct authorities' stake toward a
// parametrized threshold. It is not safe for concurrent use without
// external synchronization, matching its intended owner: a single
// non-blocking task (the threshold clock, or one certificate-collection
// attempt).
type StakeAggregator struct {
	threshold Threshold
	seen      map[blockdag.AuthorityIndex]struct{}
	stake     Stake
}

// NewStakeAggregator builds an aggregator for the given threshold rule.
func NewStakeAggregator(threshold Threshold) *StakeAggregator {
	return &StakeAggregator{
		threshold: threshold,
		seen:      make(map[blockdag.AuthorityIndex]struct{}),
	}
}

// Add records a vote from author against committee. It is idempotent per
// author: adding the same author twice neither double-counts stake nor
// changes the return value beyond the first crossing. It returns true iff
// the accumulated stake now meets the aggregator's threshold.
func (a *StakeAggregator) Add(author blockdag.AuthorityIndex, committee *Committee) bool {
	if _, already := a.seen[author]; already {
		return a.stake >= a.threshold.ThresholdStake(committee)
	}
	a.seen[author] = struct{}{}
	a.stake += committee.StakeOf(author)
	return a.stake >= a.threshold.ThresholdStake(committee)
}

// StakeSoFar returns the stake accumulated since the last Clear.
func (a *StakeAggregator) StakeSoFar() Stake { return a.stake }

// Count returns the number of distinct authorities counted so far.
func (a *StakeAggregator) Count() int { return len(a.seen) }

// Clear resets the aggregator to empty.
func (a *StakeAggregator) Clear() {
	a.seen = make(map[blockdag.AuthorityIndex]struct{})
	a.stake = 0
}
