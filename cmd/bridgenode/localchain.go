// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"

	"github.com/luxfi/bridgeconsensus/bridge/chainclient"
	"github.com/luxfi/bridgeconsensus/bridge/gas"
	"github.com/luxfi/bridgeconsensus/bridge/types"
)

// localChain is a dry-run ChainClient and AuthorityAggregator that accepts
// every transaction and signature request immediately, without talking to
// any real chain or authority set. It exists so this binary is runnable
// standalone for local development, mirroring the original design's mock
// client/mock bridge server used to exercise the pipeline in tests. A real
// deployment links main against a build that supplies its own
// chainclient.ChainClient and chainclient.AuthorityAggregator instead.
type localChain struct {
	owner gas.Owner
}

func (c *localChain) ExecuteTransactionBlockWithEffects(_ context.Context, _ chainclient.SignedTransaction) (chainclient.Effects, error) {
	return localEffects{owner: c.owner}, nil
}

func (c *localChain) GetGasObjectRefAndOwner(_ context.Context, id gas.ObjectID) (gas.ObjectRef, gas.Owner, error) {
	return gas.ObjectRef{ObjectID: id, Version: 1}, c.owner, nil
}

func (c *localChain) RequestCommitteeSignatures(_ context.Context, action types.BridgeAction, _ uint64) (types.VerifiedCertifiedBridgeAction, error) {
	return types.NewVerifiedCertifiedBridgeAction(action, nil), nil
}

type localEffects struct {
	owner gas.Owner
}

func (e localEffects) Status() chainclient.EffectsStatus { return chainclient.EffectsSuccess }
func (e localEffects) FailureError() string              { return "" }
func (e localEffects) GasObjectRefAndOwner() (gas.ObjectRef, gas.Owner) {
	return gas.ObjectRef{Version: 1}, e.owner
}

func localBuildTransaction(ref gas.ObjectRef) (chainclient.SignedTransaction, error) {
	return ref, nil
}
