// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package thresholdclock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/bridgeconsensus/blockdag"
	"github.com/luxfi/bridgeconsensus/quorum"
)

func fourEqualStakeCommittee(t *testing.T) *quorum.Committee {
	t.Helper()
	c, err := quorum.NewCommittee([]quorum.Authority{
		{Index: 0, Stake: 1},
		{Index: 1, Stake: 1},
		{Index: 2, Stake: 1},
		{Index: 3, Stake: 1},
	})
	require.NoError(t, err)
	return c
}

func testRef(author blockdag.AuthorityIndex, round blockdag.Round) blockdag.BlockRef {
	return blockdag.BlockRef{Round: round, Author: author, Digest: blockdag.BlockDigest{}}
}

// TestAddBlock replicates, block-for-block, the original threshold clock's
// single-step scenario: quorum (3 of 4 equal-stake authorities) at round 0
// advances to round 1; a jump to round 5 vacates unconditionally.
func TestAddBlock(t *testing.T) {
	c := New(0, fourEqualStakeCommittee(t), nil)

	c.AddBlock(testRef(0, 0))
	require.Equal(t, blockdag.Round(0), c.Round())

	c.AddBlock(testRef(1, 0))
	require.Equal(t, blockdag.Round(0), c.Round())

	c.AddBlock(testRef(2, 0))
	require.Equal(t, blockdag.Round(1), c.Round())

	c.AddBlock(testRef(0, 1))
	require.Equal(t, blockdag.Round(1), c.Round())

	c.AddBlock(testRef(3, 1))
	require.Equal(t, blockdag.Round(1), c.Round())

	c.AddBlock(testRef(1, 2))
	require.Equal(t, blockdag.Round(2), c.Round())

	// A stale block for a round we've already passed is ignored.
	c.AddBlock(testRef(1, 1))
	require.Equal(t, blockdag.Round(2), c.Round())

	// A block far ahead of the current round vacates unconditionally.
	c.AddBlock(testRef(2, 5))
	require.Equal(t, blockdag.Round(5), c.Round())
}

// TestAddBlocks replicates the original bulk-ingest scenario: the same
// sequence fed through AddBlocks should report that the round advanced, to
// round 5.
func TestAddBlocks(t *testing.T) {
	c := New(0, fourEqualStakeCommittee(t), nil)

	refs := []blockdag.BlockRef{
		testRef(0, 0),
		testRef(1, 0),
		testRef(2, 0),
		testRef(0, 1),
		testRef(3, 1),
		testRef(1, 2),
		testRef(1, 1),
		testRef(2, 5),
	}

	newRound, advanced := c.AddBlocks(refs)
	require.True(t, advanced)
	require.Equal(t, blockdag.Round(5), newRound)
}

// TestAddBlocksNoAdvance verifies the "no advance" case reports false and a
// zero round, matching the Option::None semantics of the original.
func TestAddBlocksNoAdvance(t *testing.T) {
	c := New(0, fourEqualStakeCommittee(t), nil)

	newRound, advanced := c.AddBlocks([]blockdag.BlockRef{testRef(0, 0)})
	require.False(t, advanced)
	require.Equal(t, blockdag.Round(0), newRound)
}

type fakeMetrics struct {
	observations []float64
}

func (f *fakeMetrics) ObserveQuorumReceiveLatency(seconds float64) {
	f.observations = append(f.observations, seconds)
}

// TestQuorumCrossingRecordsLatency verifies a metrics observation is
// recorded exactly once per quorum crossing, not once per block.
func TestQuorumCrossingRecordsLatency(t *testing.T) {
	metrics := &fakeMetrics{}
	c := New(0, fourEqualStakeCommittee(t), metrics)

	c.AddBlock(testRef(0, 0))
	c.AddBlock(testRef(1, 0))
	require.Empty(t, metrics.observations)

	c.AddBlock(testRef(2, 0))
	require.Len(t, metrics.observations, 1)

	c.AddBlock(testRef(0, 1))
	c.AddBlock(testRef(1, 1))
	c.AddBlock(testRef(3, 1))
	require.Len(t, metrics.observations, 2)
}

// TestNilMetricsIsSafe verifies a nil Metrics argument is accepted and
// degrades to a no-op rather than panicking.
func TestNilMetricsIsSafe(t *testing.T) {
	c := New(0, fourEqualStakeCommittee(t), nil)
	require.NotPanics(t, func() {
		c.AddBlock(testRef(0, 0))
		c.AddBlock(testRef(1, 0))
		c.AddBlock(testRef(2, 0))
	})
	require.Equal(t, blockdag.Round(1), c.Round())
}
