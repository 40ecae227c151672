// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/bridgeconsensus/bridge/types"
)

func testAction(payload string) types.BridgeAction {
	return types.BridgeAction{
		ActionType: "transfer",
		Envelope: types.Envelope{
			SourceChainID:      ids.ID{1},
			DestinationChainID: ids.ID{2},
			Payload:            []byte(payload),
		},
	}
}

func TestMemoryStoreInsertAndGetAll(t *testing.T) {
	store := NewMemoryStore()
	action := testAction("one")

	require.NoError(t, store.InsertPendingActions([]types.BridgeAction{action}))

	all, err := store.GetAllPendingActions()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, action, all[action.Digest()])
}

func TestMemoryStoreInsertIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	action := testAction("one")

	require.NoError(t, store.InsertPendingActions([]types.BridgeAction{action}))
	require.NoError(t, store.InsertPendingActions([]types.BridgeAction{action}))

	all, err := store.GetAllPendingActions()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore()
	a1 := testAction("one")
	a2 := testAction("two")
	require.NoError(t, store.InsertPendingActions([]types.BridgeAction{a1, a2}))

	require.NoError(t, store.RemovePendingActions([]types.ActionDigest{a1.Digest()}))

	all, err := store.GetAllPendingActions()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, a2, all[a2.Digest()])
}

func TestMemoryStoreRemoveUnknownDigestIsNoop(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.RemovePendingActions([]types.ActionDigest{{0xff}}))
}

func TestGetAllPendingActionsReturnsDefensiveCopy(t *testing.T) {
	store := NewMemoryStore()
	action := testAction("one")
	require.NoError(t, store.InsertPendingActions([]types.BridgeAction{action}))

	all, err := store.GetAllPendingActions()
	require.NoError(t, err)
	delete(all, action.Digest())

	allAgain, err := store.GetAllPendingActions()
	require.NoError(t, err)
	require.Len(t, allAgain, 1)
}
