// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestDigestIsPureFunctionOfContent(t *testing.T) {
	a1 := BridgeAction{ActionType: "transfer", Envelope: Envelope{
		SourceChainID:      ids.ID{1},
		DestinationChainID: ids.ID{2},
		Payload:            []byte("payload"),
	}}
	a2 := a1
	require.Equal(t, a1.Digest(), a2.Digest())
}

func TestDigestDistinguishesFieldBoundaries(t *testing.T) {
	// ActionType and Payload are each length-prefixed, so moving bytes from
	// one field to the other must change the digest.
	a1 := BridgeAction{ActionType: "ab", Envelope: Envelope{Payload: []byte("c")}}
	a2 := BridgeAction{ActionType: "a", Envelope: Envelope{Payload: []byte("bc")}}
	require.NotEqual(t, a1.Digest(), a2.Digest())
}

func TestDigestDistinguishesChainIDs(t *testing.T) {
	a1 := BridgeAction{ActionType: "transfer", Envelope: Envelope{
		SourceChainID: ids.ID{1}, DestinationChainID: ids.ID{2}, Payload: []byte("p"),
	}}
	a2 := BridgeAction{ActionType: "transfer", Envelope: Envelope{
		SourceChainID: ids.ID{2}, DestinationChainID: ids.ID{1}, Payload: []byte("p"),
	}}
	require.NotEqual(t, a1.Digest(), a2.Digest())
}

func TestDigestDistinguishesActionType(t *testing.T) {
	env := Envelope{SourceChainID: ids.ID{1}, DestinationChainID: ids.ID{2}, Payload: []byte("p")}
	a1 := BridgeAction{ActionType: "transfer", Envelope: env}
	a2 := BridgeAction{ActionType: "committee-update", Envelope: env}
	require.NotEqual(t, a1.Digest(), a2.Digest())
}

func TestDigestStableAcrossAttemptCount(t *testing.T) {
	action := BridgeAction{ActionType: "transfer", Envelope: Envelope{
		SourceChainID: ids.ID{1}, DestinationChainID: ids.ID{2}, Payload: []byte("p"),
	}}
	w1 := BridgeActionExecutionWrapper{Action: action, AttemptCount: 0}
	w2 := BridgeActionExecutionWrapper{Action: action, AttemptCount: 7}

	require.Equal(t, w1.Action.Digest(), w2.Action.Digest())
}

func TestVerifiedCertifiedBridgeActionRoundTrip(t *testing.T) {
	action := BridgeAction{ActionType: "transfer", Envelope: Envelope{
		SourceChainID: ids.ID{1}, DestinationChainID: ids.ID{2}, Payload: []byte("p"),
	}}
	sigs := []AuthoritySignature{{Authority: 0}, {Authority: 1}}
	certified := NewVerifiedCertifiedBridgeAction(action, sigs)

	require.Equal(t, action.Digest(), certified.Digest())
	require.Len(t, certified.Signatures(), 2)

	// Returned slice is a defensive copy: mutating it must not affect the
	// certified action's internal state.
	got := certified.Signatures()
	got[0].Authority = 99
	require.Equal(t, uint32(0), certified.Signatures()[0].Authority)
}
