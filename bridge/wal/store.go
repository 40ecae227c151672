// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wal is the write-ahead log of bridge actions awaiting signature
// collection or on-chain execution. An action is inserted before it enters
// the signing pipeline and removed only once its transaction has executed
// successfully, so a crash between submission and confirmation never loses
// an action: it is simply picked up again from GetAllPendingActions on
// restart.
package wal

import (
	"sync"

	"github.com/luxfi/bridgeconsensus/bridge/types"
)

// PendingActionStore durably tracks bridge actions that have been accepted
// for processing but not yet confirmed executed.
type PendingActionStore interface {
	// InsertPendingActions records actions as pending. Inserting an action
	// already present is a no-op.
	InsertPendingActions(actions []types.BridgeAction) error

	// RemovePendingActions drops the actions identified by digest. Removing
	// a digest that isn't present is a no-op.
	RemovePendingActions(digests []types.ActionDigest) error

	// GetAllPendingActions returns every pending action, keyed by its
	// action digest.
	GetAllPendingActions() (map[types.ActionDigest]types.BridgeAction, error)
}

// MemoryStore is an in-memory PendingActionStore, suitable for tests and
// for nodes that accept losing in-flight actions across a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[types.ActionDigest]types.BridgeAction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[types.ActionDigest]types.BridgeAction)}
}

func (s *MemoryStore) InsertPendingActions(actions []types.BridgeAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.pending[a.Digest()] = a
	}
	return nil
}

func (s *MemoryStore) RemovePendingActions(digests []types.ActionDigest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range digests {
		delete(s.pending, d)
	}
	return nil
}

func (s *MemoryStore) GetAllPendingActions() (map[types.ActionDigest]types.BridgeAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.ActionDigest]types.BridgeAction, len(s.pending))
	for k, v := range s.pending {
		out[k] = v
	}
	return out, nil
}
