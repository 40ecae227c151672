// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockdag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBadSignature = errors.New("bad signature")

func TestDigestIsPureFunctionOfContent(t *testing.T) {
	b1 := NewBlockV1(3, 1, 1000, nil, []Transaction{[]byte("a"), []byte("bc")})
	b2 := NewBlockV1(3, 1, 1000, nil, []Transaction{[]byte("a"), []byte("bc")})

	require.Equal(t, b1.Digest(), b2.Digest())
}

func TestDigestChangesWithContent(t *testing.T) {
	base := NewBlockV1(3, 1, 1000, nil, []Transaction{[]byte("a")})
	diffRound := NewBlockV1(4, 1, 1000, nil, []Transaction{[]byte("a")})
	diffAuthor := NewBlockV1(3, 2, 1000, nil, []Transaction{[]byte("a")})
	diffTx := NewBlockV1(3, 1, 1000, nil, []Transaction{[]byte("b")})

	require.NotEqual(t, base.Digest(), diffRound.Digest())
	require.NotEqual(t, base.Digest(), diffAuthor.Digest())
	require.NotEqual(t, base.Digest(), diffTx.Digest())
}

func TestDigestMemoizedAcrossCalls(t *testing.T) {
	b := NewBlockV1(1, 0, 1, nil, nil)
	first := b.Digest()
	second := b.Digest()
	require.Equal(t, first, second)
}

func TestRoundTripSerialization(t *testing.T) {
	ancestors := []BlockRef{
		{Round: 0, Author: 0, Digest: BlockDigest{1}},
		{Round: 0, Author: 1, Digest: BlockDigest{2}},
	}
	original := NewBlockV1(5, 2, 123456, ancestors, []Transaction{[]byte("hello"), []byte("")})

	data := CanonicalBytes(original)
	parsed, err := ParseBlockV1(data)
	require.NoError(t, err)

	require.Equal(t, original.Digest(), parsed.Digest())
	require.Equal(t, original.Round(), parsed.Round())
	require.Equal(t, original.Author(), parsed.Author())
	require.Equal(t, original.TimestampMs(), parsed.TimestampMs())
	require.Equal(t, original.Ancestors(), parsed.Ancestors())
	require.Equal(t, original.Transactions(), parsed.Transactions())
}

func TestReferenceUsesComputedDigest(t *testing.T) {
	b := NewBlockV1(7, 3, 1, nil, nil)
	ref := b.Reference()
	require.Equal(t, Round(7), ref.Round)
	require.Equal(t, AuthorityIndex(3), ref.Author)
	require.Equal(t, b.Digest(), ref.Digest)
}

func TestBlockRefOrdering(t *testing.T) {
	a := BlockRef{Round: 1, Author: 0, Digest: BlockDigest{1}}
	b := BlockRef{Round: 1, Author: 1, Digest: BlockDigest{0}}
	c := BlockRef{Round: 2, Author: 0, Digest: BlockDigest{0}}

	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, c.Less(a))
}

type fakeVerifier struct {
	err error
}

func (f fakeVerifier) VerifyBlock(AuthorityIndex, []byte, []byte) error {
	return f.err
}

func TestVerifyPromotesSignedToVerified(t *testing.T) {
	b := NewBlockV1(1, 0, 1, nil, nil)
	signed := SignedBlock{Block: b, Signature: []byte("sig"), Serialized: CanonicalBytes(b)}

	verified, err := Verify(signed, fakeVerifier{})
	require.NoError(t, err)
	require.Equal(t, b.Reference(), verified.Reference())
	require.Equal(t, []byte("sig"), verified.Signature())
}

func TestVerifyPropagatesFailure(t *testing.T) {
	b := NewBlockV1(1, 0, 1, nil, nil)
	signed := SignedBlock{Block: b, Signature: []byte("sig"), Serialized: CanonicalBytes(b)}

	_, err := Verify(signed, fakeVerifier{err: errBadSignature})
	require.ErrorIs(t, err, errBadSignature)
}
