// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"fmt"

	"github.com/luxfi/crypto/bls"

	"github.com/luxfi/bridgeconsensus/blockdag"
	"github.com/luxfi/bridgeconsensus/quorum"
)

// BridgeCommittee is the set of bridge authorities eligible to sign bridge
// actions, together with their BLS public keys. It is distinct from a DAG
// validator quorum.Committee: bridge authorities are not necessarily the
// same set, or weighted the same way, as the consensus validator set they
// run alongside.
type BridgeCommittee struct {
	committee *quorum.Committee
}

// NewBridgeCommittee builds a BridgeCommittee from authorities, each of
// which must carry a non-nil BLS public key: unlike a bare quorum
// committee, every signature the executor collects must be verifiable.
func NewBridgeCommittee(authorities []quorum.Authority) (*BridgeCommittee, error) {
	for _, a := range authorities {
		if a.PublicKey == nil {
			return nil, fmt.Errorf("bridge: authority %d has no public key", a.Index)
		}
	}
	c, err := quorum.NewCommittee(authorities)
	if err != nil {
		return nil, err
	}
	return &BridgeCommittee{committee: c}, nil
}

// Committee exposes the underlying stake table for threshold computation.
func (b *BridgeCommittee) Committee() *quorum.Committee { return b.committee }

// AggregateSignatures combines the given authority signature shares into a
// single aggregate BLS signature and the corresponding aggregate public
// key, so a verifier need check only one pairing rather than one per
// signer. It returns an error if any authority index is unknown or if no
// signatures are supplied.
func (b *BridgeCommittee) AggregateSignatures(shares []AuthoritySignature) (*bls.Signature, *bls.PublicKey, error) {
	if len(shares) == 0 {
		return nil, nil, fmt.Errorf("bridge: no signatures to aggregate")
	}

	sigs := make([]*bls.Signature, 0, len(shares))
	pubKeys := make([]*bls.PublicKey, 0, len(shares))
	for _, s := range shares {
		authority, ok := b.committee.Authority(blockdag.AuthorityIndex(s.Authority))
		if !ok {
			return nil, nil, fmt.Errorf("bridge: unknown authority %d in signature set", s.Authority)
		}
		sigs = append(sigs, s.Signature)
		pubKeys = append(pubKeys, authority.PublicKey)
	}

	aggSig, err := bls.AggregateSignatures(sigs)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: aggregating signatures: %w", err)
	}
	aggPub, err := bls.AggregatePublicKeys(pubKeys)
	if err != nil {
		return nil, nil, fmt.Errorf("bridge: aggregating public keys: %w", err)
	}
	return aggSig, aggPub, nil
}
