// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/luxfi/log"

	"github.com/luxfi/bridgeconsensus/bridge/chainclient"
	"github.com/luxfi/bridgeconsensus/bridge/executor"
	"github.com/luxfi/bridgeconsensus/bridge/gas"
	"github.com/luxfi/bridgeconsensus/bridge/signing"
	"github.com/luxfi/bridgeconsensus/bridge/wal"
)

// Config holds the node's static, non-chain-specific configuration.
type Config struct {
	GasObjectID            gas.ObjectID
	Owner                  gas.Owner
	MaxConcurrentSigning   int64
	ValidityThresholdStake uint64
}

// Run wires the signing and execution pipelines together and blocks until
// ctx is done. client, authAgg, and build are the chain-specific
// collaborators a concrete deployment supplies: this module defines their
// contracts (chainclient.ChainClient, chainclient.AuthorityAggregator,
// executor.BuildTransaction) but does not implement a transport for any
// particular chain, so main() is linked against a build that provides
// them.
func Run(ctx context.Context, logger log.Logger, cfg Config, client chainclient.ChainClient, authAgg chainclient.AuthorityAggregator, build executor.BuildTransaction, store wal.PendingActionStore) error {
	pending, err := store.GetAllPendingActions()
	if err != nil {
		return fmt.Errorf("loading pending actions from write-ahead log: %w", err)
	}
	logger.Info("loaded pending bridge actions from write-ahead log", log.Int("count", len(pending)))

	initialGasRef, gasOwner, err := client.GetGasObjectRefAndOwner(ctx, cfg.GasObjectID)
	if err != nil {
		return fmt.Errorf("resolving initial gas object reference: %w", err)
	}
	if gasOwner != cfg.Owner {
		return fmt.Errorf("configured gas object %x is not owned by the configured address", cfg.GasObjectID)
	}
	gasManager := gas.New(logger, cfg.Owner, initialGasRef, client)

	signingPipeline := signing.New(logger, authAgg, signing.ValidityThresholdStake(cfg.ValidityThresholdStake), cfg.MaxConcurrentSigning)
	executionPipeline := executor.New(logger, client, gasManager, store, build, signing.ChannelSize)

	go signingPipeline.Run(ctx)
	go executionPipeline.Run(ctx)
	go forwardCertified(ctx, signingPipeline, executionPipeline)

	for _, action := range pending {
		if err := signingPipeline.Submit(ctx, action); err != nil {
			logger.Warn("failed to resubmit pending action on startup", log.Err(err))
		}
	}

	logger.Info("bridgenode started")
	<-ctx.Done()
	logger.Info("bridgenode shutting down")
	return nil
}

func forwardCertified(ctx context.Context, signingPipeline *signing.Pipeline, executionPipeline *executor.Pipeline) {
	for {
		select {
		case certificate, ok := <-signingPipeline.ExecutionQueue():
			if !ok {
				return
			}
			_ = executionPipeline.Enqueue(ctx, certificate)
		case <-ctx.Done():
			return
		}
	}
}
