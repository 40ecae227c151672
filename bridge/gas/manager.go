// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gas tracks the single gas object the executor spends from to
// submit bridge transactions, refreshing its reference after each
// execution and whenever it goes stale.
package gas

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

// ObjectID identifies an on-chain object.
type ObjectID = ids.ID

// Owner identifies the on-chain account that owns an object.
type Owner = ids.ID

// ObjectRef pins a specific version of an object: the only form of a gas
// object reference valid to spend against, since a stale version is
// rejected by the chain.
type ObjectRef struct {
	ObjectID ObjectID
	Version  uint64
	Digest   [32]byte
}

// Lookup resolves the current on-chain reference and owner for an object
// id, used to refresh a stale gas reference by id rather than by effects.
type Lookup interface {
	GetGasObjectRefAndOwner(ctx context.Context, id ObjectID) (ObjectRef, Owner, error)
}

// Effects is the minimal slice of transaction effects the gas manager
// needs: the gas object's resulting reference and owner, so the manager
// can advance without a second RPC round-trip.
type Effects interface {
	GasObjectRefAndOwner() (ObjectRef, Owner)
}

// Manager owns the single gas object reference an executor instance
// spends transactions from. It is not safe for concurrent use: the
// executor pipeline is strictly sequential per instance, and the manager
// relies on that to avoid racing advances.
type Manager struct {
	log     log.Logger
	self    Owner
	current ObjectRef
	lookup  Lookup
}

// New creates a Manager starting from initial, owned by self. self is the
// address the gas object must remain owned by; any refresh that observes a
// different owner is a fatal misconfiguration (someone transferred the gas
// object out from under the node) and aborts the process, matching the
// original's hard `assert_eq!` on owner.
func New(logger log.Logger, self Owner, initial ObjectRef, lookup Lookup) *Manager {
	return &Manager{log: logger, self: self, current: initial, lookup: lookup}
}

// Current returns the gas object reference to spend from.
func (m *Manager) Current() ObjectRef { return m.current }

// RefreshFromEffects advances the tracked reference using the gas object
// state reported by a transaction's effects. It aborts the process if the
// resulting owner is not self: this is a misconfiguration, not a transient
// error, and retrying would just fail again.
func (m *Manager) RefreshFromEffects(effects Effects) {
	ref, owner := effects.GasObjectRefAndOwner()
	m.assertOwnedBySelf(ref, owner)
	m.current = ref
}

// RefreshByLookup re-resolves the gas object's current reference directly
// from the chain, used when the locally tracked reference has gone stale
// (e.g. after a SuiTxFailureStaleGasData-class error) rather than because a
// transaction actually ran.
func (m *Manager) RefreshByLookup(ctx context.Context) error {
	ref, owner, err := m.lookup.GetGasObjectRefAndOwner(ctx, m.current.ObjectID)
	if err != nil {
		return fmt.Errorf("gas: refreshing object %s: %w", m.current.ObjectID, err)
	}
	m.assertOwnedBySelf(ref, owner)
	m.current = ref
	return nil
}

func (m *Manager) assertOwnedBySelf(ref ObjectRef, owner Owner) {
	if owner != m.self {
		m.log.Fatal("gas object is no longer owned by this address",
			log.Stringer("objectID", ref.ObjectID),
			log.Stringer("owner", owner),
			log.Stringer("expectedOwner", m.self),
		)
		// log.Fatal is expected to terminate the process; panic as well so
		// a no-op or misconfigured logger can never let execution continue
		// past a broken ownership invariant.
		panic(fmt.Sprintf("gas object %s is no longer owned by %s", ref.ObjectID, m.self))
	}
}
