// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockdag

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Version tags a Block's wire representation so future variants can be
// added without breaking deserialization of old blocks. The tag is part of
// the serialized bytes and therefore part of the digest.
type Version uint8

// V1 is the only block variant this package currently defines.
const V1 Version = 1

// Block is a versioned, immutable DAG block. Blocks are created once and
// never mutated; the only derived, lazily-computed field is the digest,
// which is a pure function of the serialized content and is safe to compute
// more than once concurrently (a benign race that computes twice and stores
// once is fine because the function is pure).
type Block interface {
	Version() Version
	Round() Round
	Author() AuthorityIndex
	TimestampMs() BlockTimestampMs
	Ancestors() []BlockRef
	Transactions() []Transaction

	// Digest returns the block's content digest, computing and memoizing
	// it on first access.
	Digest() BlockDigest
	// Reference returns the BlockRef identifying this block.
	Reference() BlockRef
}

// BlockV1 is the V1 block variant.
type BlockV1 struct {
	round        Round
	author       AuthorityIndex
	timestampMs  BlockTimestampMs
	ancestors    []BlockRef
	transactions []Transaction

	digestOnce sync.Once
	digest     BlockDigest
}

// NewBlockV1 constructs a V1 block. ancestors and transactions are copied
// defensively so the caller's slices can be reused.
func NewBlockV1(round Round, author AuthorityIndex, timestampMs BlockTimestampMs, ancestors []BlockRef, transactions []Transaction) *BlockV1 {
	b := &BlockV1{
		round:        round,
		author:       author,
		timestampMs:  timestampMs,
		ancestors:    append([]BlockRef(nil), ancestors...),
		transactions: append([]Transaction(nil), transactions...),
	}
	return b
}

func (b *BlockV1) Version() Version                 { return V1 }
func (b *BlockV1) Round() Round                     { return b.round }
func (b *BlockV1) Author() AuthorityIndex            { return b.author }
func (b *BlockV1) TimestampMs() BlockTimestampMs     { return b.timestampMs }
func (b *BlockV1) Ancestors() []BlockRef             { return b.ancestors }
func (b *BlockV1) Transactions() []Transaction       { return b.transactions }

// Digest computes the block's content digest on first access and memoizes
// it. The digest is never part of the canonical serialization: it is a
// derived value recomputed from the serialized bytes on deserialization.
func (b *BlockV1) Digest() BlockDigest {
	b.digestOnce.Do(func() {
		b.digest = sha256.Sum256(CanonicalBytes(b))
	})
	return b.digest
}

// Reference returns the BlockRef identifying this block.
func (b *BlockV1) Reference() BlockRef {
	return BlockRef{Round: b.round, Author: b.author, Digest: b.Digest()}
}

// CanonicalBytes serializes a block deterministically: the version tag,
// then round, author, timestamp, ancestors, and transactions, each field in
// declaration order with fixed-width integers and length-prefixed variable
// fields. This is the byte string the digest is computed over, and the
// format actually transmitted on the wire (minus the memoized digest, which
// is never serialized).
func CanonicalBytes(b Block) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(b.Version()))

	var scratch [8]byte
	binary.BigEndian.PutUint32(scratch[:4], uint32(b.Round()))
	buf.Write(scratch[:4])
	binary.BigEndian.PutUint32(scratch[:4], uint32(b.Author()))
	buf.Write(scratch[:4])
	binary.BigEndian.PutUint64(scratch[:8], uint64(b.TimestampMs()))
	buf.Write(scratch[:8])

	ancestors := b.Ancestors()
	binary.BigEndian.PutUint32(scratch[:4], uint32(len(ancestors)))
	buf.Write(scratch[:4])
	for _, a := range ancestors {
		binary.BigEndian.PutUint32(scratch[:4], uint32(a.Round))
		buf.Write(scratch[:4])
		binary.BigEndian.PutUint32(scratch[:4], uint32(a.Author))
		buf.Write(scratch[:4])
		buf.Write(a.Digest[:])
	}

	txs := b.Transactions()
	binary.BigEndian.PutUint32(scratch[:4], uint32(len(txs)))
	buf.Write(scratch[:4])
	for _, tx := range txs {
		binary.BigEndian.PutUint32(scratch[:4], uint32(len(tx)))
		buf.Write(scratch[:4])
		buf.Write(tx)
	}

	return buf.Bytes()
}

// ParseBlockV1 deserializes a V1 block from the bytes produced by
// CanonicalBytes, recomputing (not trusting) the digest.
func ParseBlockV1(data []byte) (*BlockV1, error) {
	r := bytes.NewReader(data)
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read version tag: %w", err)
	}
	if Version(tag) != V1 {
		return nil, fmt.Errorf("blockdag: unsupported block version %d", tag)
	}

	var scratch [8]byte
	readU32 := func() (uint32, error) {
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint32(scratch[:4]), nil
	}
	readU64 := func() (uint64, error) {
		if _, err := io.ReadFull(r, scratch[:8]); err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(scratch[:8]), nil
	}

	round, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read round: %w", err)
	}
	author, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read author: %w", err)
	}
	ts, err := readU64()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read timestamp: %w", err)
	}

	ancestorCount, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read ancestor count: %w", err)
	}
	ancestors := make([]BlockRef, 0, ancestorCount)
	for i := uint32(0); i < ancestorCount; i++ {
		aRound, err := readU32()
		if err != nil {
			return nil, fmt.Errorf("blockdag: read ancestor round: %w", err)
		}
		aAuthor, err := readU32()
		if err != nil {
			return nil, fmt.Errorf("blockdag: read ancestor author: %w", err)
		}
		var digest BlockDigest
		if _, err := io.ReadFull(r, digest[:]); err != nil {
			return nil, fmt.Errorf("blockdag: read ancestor digest: %w", err)
		}
		ancestors = append(ancestors, BlockRef{Round: Round(aRound), Author: AuthorityIndex(aAuthor), Digest: digest})
	}

	txCount, err := readU32()
	if err != nil {
		return nil, fmt.Errorf("blockdag: read transaction count: %w", err)
	}
	txs := make([]Transaction, 0, txCount)
	for i := uint32(0); i < txCount; i++ {
		txLen, err := readU32()
		if err != nil {
			return nil, fmt.Errorf("blockdag: read transaction length: %w", err)
		}
		tx := make([]byte, txLen)
		if _, err := io.ReadFull(r, tx); err != nil {
			return nil, fmt.Errorf("blockdag: read transaction: %w", err)
		}
		txs = append(txs, Transaction(tx))
	}

	return NewBlockV1(Round(round), AuthorityIndex(author), BlockTimestampMs(ts), ancestors, txs), nil
}
