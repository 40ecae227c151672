// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/bridgeconsensus/internal/noplog"
)

var errBoom = errors.New("rpc unreachable")

type fakeEffects struct {
	ref   ObjectRef
	owner Owner
}

func (f fakeEffects) GasObjectRefAndOwner() (ObjectRef, Owner) { return f.ref, f.owner }

type fakeLookup struct {
	ref   ObjectRef
	owner Owner
	err   error
}

func (f fakeLookup) GetGasObjectRefAndOwner(ctx context.Context, id ObjectID) (ObjectRef, Owner, error) {
	return f.ref, f.owner, f.err
}

func TestRefreshFromEffectsAdvancesReference(t *testing.T) {
	self := Owner{1}
	initial := ObjectRef{ObjectID: ObjectID{1}, Version: 1}
	m := New(noplog.New(), self, initial, nil)

	next := ObjectRef{ObjectID: ObjectID{1}, Version: 2}
	m.RefreshFromEffects(fakeEffects{ref: next, owner: self})

	require.Equal(t, next, m.Current())
}

func TestRefreshByLookupAdvancesReference(t *testing.T) {
	self := Owner{1}
	initial := ObjectRef{ObjectID: ObjectID{1}, Version: 1}
	next := ObjectRef{ObjectID: ObjectID{1}, Version: 5}
	m := New(noplog.New(), self, initial, fakeLookup{ref: next, owner: self})

	require.NoError(t, m.RefreshByLookup(context.Background()))
	require.Equal(t, next, m.Current())
}

func TestRefreshByLookupPropagatesError(t *testing.T) {
	self := Owner{1}
	initial := ObjectRef{ObjectID: ObjectID{1}, Version: 1}
	m := New(noplog.New(), self, initial, fakeLookup{err: errBoom})

	require.ErrorIs(t, m.RefreshByLookup(context.Background()), errBoom)
	require.Equal(t, initial, m.Current())
}

func TestRefreshFromEffectsAbortsOnOwnerMismatch(t *testing.T) {
	self := Owner{1}
	other := Owner{2}
	initial := ObjectRef{ObjectID: ObjectID{1}, Version: 1}
	m := New(noplog.New(), self, initial, nil)

	require.Panics(t, func() {
		m.RefreshFromEffects(fakeEffects{ref: ObjectRef{ObjectID: ObjectID{1}, Version: 2}, owner: other})
	})
}
