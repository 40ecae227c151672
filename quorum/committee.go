// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum computes the quorum and validity stake thresholds for a
// committee and accumulates authority votes toward a parametrized threshold.
package quorum

import (
	"fmt"

	"github.com/luxfi/crypto/bls"

	"github.com/luxfi/bridgeconsensus/blockdag"
)

// Stake is a validator's voting weight.
type Stake uint64

// Authority is one committee member: its dense index, its stake weight,
// and the public key used to verify its signatures. PublicKey may be nil
// in tests that do not exercise signature verification.
type Authority struct {
	Index     blockdag.AuthorityIndex
	Stake     Stake
	PublicKey *bls.PublicKey
}

// Committee is the fixed stake table a round's quorum/validity thresholds
// are computed over. It is immutable once built and safe for concurrent
// read-only use.
type Committee struct {
	authorities []Authority
	totalStake  Stake
}

// NewCommittee builds a Committee from authorities ordered by Index.
// authorities[i].Index must equal i; this mirrors the dense, zero-based
// indexing the block DAG assumes.
func NewCommittee(authorities []Authority) (*Committee, error) {
	var total Stake
	for i, a := range authorities {
		if int(a.Index) != i {
			return nil, fmt.Errorf("quorum: authority at position %d has index %d, want dense indexing", i, a.Index)
		}
		total += a.Stake
	}
	return &Committee{
		authorities: append([]Authority(nil), authorities...),
		totalStake:  total,
	}, nil
}

// Size returns the number of authorities in the committee.
func (c *Committee) Size() int { return len(c.authorities) }

// TotalStake returns the sum of every authority's stake.
func (c *Committee) TotalStake() Stake { return c.totalStake }

// StakeOf returns the stake of the authority at idx, or 0 if idx is out of
// range.
func (c *Committee) StakeOf(idx blockdag.AuthorityIndex) Stake {
	if int(idx) < 0 || int(idx) >= len(c.authorities) {
		return 0
	}
	return c.authorities[idx].Stake
}

// Authority returns the authority at idx and whether idx is valid.
func (c *Committee) Authority(idx blockdag.AuthorityIndex) (Authority, bool) {
	if int(idx) < 0 || int(idx) >= len(c.authorities) {
		return Authority{}, false
	}
	return c.authorities[idx], true
}

// ceilDiv computes ceil(numerator / denominator) for non-negative integers.
func ceilDiv(numerator, denominator Stake) Stake {
	if denominator == 0 {
		return 0
	}
	return (numerator + denominator - 1) / denominator
}

// QuorumThresholdStake is the smallest stake >= ceil((2*totalStake+1)/3):
// the classical BFT supermajority, 2f+1 out of 3f+1.
func (c *Committee) QuorumThresholdStake() Stake {
	return ceilDiv(2*c.totalStake+1, 3)
}

// ValidityThresholdStake is the smallest stake >= ceil((totalStake+1)/3):
// f+1, guaranteeing at least one honest authority contributed.
func (c *Committee) ValidityThresholdStake() Stake {
	return ceilDiv(c.totalStake+1, 3)
}
