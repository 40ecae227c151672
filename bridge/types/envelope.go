// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the bridge action wire shapes: the cross-chain
// envelope being attested, the action wrapper carrying it through the
// executor pipeline, and the certified form produced once a validity
// threshold of authority signatures has been collected.
package types

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
)

// Envelope is the chain-agnostic message a bridge action attests to: "move
// this payload from SourceChainID to DestinationChainID". It intentionally
// mirrors the shape of an unsigned cross-chain message rather than any
// particular external wire format, so it can be canonically serialized and
// digested the same way a block is.
type Envelope struct {
	SourceChainID      ids.ID
	DestinationChainID ids.ID
	Payload            []byte
}

// Bytes returns the canonical, length-prefixed serialization of the
// envelope used both for signing and for digesting. Unlike simple
// concatenation, length prefixes make the encoding injective: two
// envelopes with different field boundaries never collide.
func (e *Envelope) Bytes() []byte {
	size := 4 + len(e.SourceChainID) + 4 + len(e.DestinationChainID) + 4 + len(e.Payload)
	buf := make([]byte, 0, size)
	buf = appendLengthPrefixed(buf, e.SourceChainID[:])
	buf = appendLengthPrefixed(buf, e.DestinationChainID[:])
	buf = appendLengthPrefixed(buf, e.Payload)
	return buf
}

func appendLengthPrefixed(buf, field []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(field)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, field...)
}

// ActionDigest identifies a BridgeAction by its ActionType and Envelope
// content only, so the digest (and therefore the WAL key) stays stable
// across retries even as an action's attempt count changes.
type ActionDigest [32]byte

// BridgeAction is a single cross-chain action awaiting authority
// signatures. ActionType distinguishes actions that otherwise carry
// structurally identical envelopes (e.g. a token transfer versus a
// committee update) so authorities can apply type-specific validation
// before signing.
type BridgeAction struct {
	ActionType string
	Envelope   Envelope
}

// Digest returns the content digest of the action: SHA-256 over the
// length-prefixed ActionType followed by the envelope's canonical bytes.
// ActionType is included first so that identical envelopes routed to
// different action types never collide.
func (a *BridgeAction) Digest() ActionDigest {
	h := sha256.New()
	var typeLen [4]byte
	binary.BigEndian.PutUint32(typeLen[:], uint32(len(a.ActionType)))
	h.Write(typeLen[:])
	h.Write([]byte(a.ActionType))
	h.Write(a.Envelope.Bytes())
	var out ActionDigest
	copy(out[:], h.Sum(nil))
	return out
}

// BridgeActionExecutionWrapper threads a BridgeAction through the signing
// pipeline alongside the number of signature-collection attempts made so
// far, so the exponential backoff can be computed without any external
// bookkeeping.
type BridgeActionExecutionWrapper struct {
	Action       BridgeAction
	AttemptCount uint64
}

// AuthoritySignature pairs an authority's index with the signature share it
// produced over an action's envelope.
type AuthoritySignature struct {
	Authority uint32
	Signature *bls.Signature
}

// VerifiedCertifiedBridgeAction is a BridgeAction together with a set of
// authority signatures that the authority aggregator reported as meeting
// the validity threshold. The signing pipeline forwards the aggregator's
// result as is; callers downstream treat its existence as proof of
// certification.
type VerifiedCertifiedBridgeAction struct {
	action     BridgeAction
	signatures []AuthoritySignature
}

// NewVerifiedCertifiedBridgeAction wraps action with the signatures that
// were aggregated to meet the validity threshold. It is the caller's
// responsibility to have actually checked the threshold; this constructor
// performs no verification of its own.
func NewVerifiedCertifiedBridgeAction(action BridgeAction, signatures []AuthoritySignature) VerifiedCertifiedBridgeAction {
	return VerifiedCertifiedBridgeAction{
		action:     action,
		signatures: append([]AuthoritySignature(nil), signatures...),
	}
}

// Action returns the certified action.
func (v VerifiedCertifiedBridgeAction) Action() BridgeAction { return v.action }

// Signatures returns the authority signatures collected for the action.
func (v VerifiedCertifiedBridgeAction) Signatures() []AuthoritySignature {
	return append([]AuthoritySignature(nil), v.signatures...)
}

// Digest returns the certified action's digest, used as the WAL key.
func (v VerifiedCertifiedBridgeAction) Digest() ActionDigest { return v.action.Digest() }
