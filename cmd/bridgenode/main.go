// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command bridgenode wires up the bridge action signing and execution
// pipelines and runs them until terminated.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"

	"github.com/luxfi/bridgeconsensus/bridge/gas"
	"github.com/luxfi/bridgeconsensus/bridge/wal"
)

func main() {
	var (
		gasObjectIDHex = flag.String("gas-object-id", "", "hex-encoded id of the gas object this node spends transactions from")
		selfOwnerHex   = flag.String("owner", "", "hex-encoded address this node signs transactions as")
		maxConcurrent  = flag.Int64("max-concurrent-signing", 8, "maximum number of in-flight signature-collection requests")
		logLevel       = flag.String("log-level", "info", "log level name, checked against: trace, debug, info, warn, error (the logger is created at its default level whatever the value)")
	)
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridgenode: %v\n", err)
		os.Exit(1)
	}

	gasObjectID, err := parseObjectID(*gasObjectIDHex)
	if err != nil {
		logger.Error("invalid -gas-object-id", log.Err(err))
		os.Exit(1)
	}
	selfOwner, err := parseOwner(*selfOwnerHex)
	if err != nil {
		logger.Error("invalid -owner", log.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// localChain is a dry-run stand-in for the chain-specific RPC and
	// authority-aggregation transport; see localchain.go. A production
	// build links main against a real chainclient.ChainClient and
	// chainclient.AuthorityAggregator instead.
	chain := &localChain{owner: selfOwner}

	cfg := Config{
		GasObjectID:            gasObjectID,
		Owner:                  selfOwner,
		MaxConcurrentSigning:   *maxConcurrent,
		ValidityThresholdStake: 34, // f+1 out of a 100-stake bridge committee; wired from config in a full deployment.
	}

	store := wal.NewMemoryStore()
	if err := Run(ctx, logger, cfg, chain, chain, localBuildTransaction, store); err != nil {
		logger.Error("bridgenode exited with error", log.Err(err))
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	switch level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return log.NewLogger("bridgenode"), nil
}

func parseObjectID(s string) (gas.ObjectID, error) {
	var id gas.ObjectID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decoding hex: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("expected %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func parseOwner(s string) (gas.Owner, error) {
	var owner gas.Owner
	raw, err := hex.DecodeString(s)
	if err != nil {
		return owner, fmt.Errorf("decoding hex: %w", err)
	}
	if len(raw) != len(owner) {
		return owner, fmt.Errorf("expected %d bytes, got %d", len(owner), len(raw))
	}
	copy(owner[:], raw)
	return owner, nil
}
