// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockdag

import "fmt"

// Verifier checks a block's signature against its purported author. Key
// management and the concrete signature scheme are out of this package's
// scope; it consumes verification abstractly.
type Verifier interface {
	// VerifyBlock reports whether signature is a valid signature by author
	// over serialized.
	VerifyBlock(author AuthorityIndex, serialized []byte, signature []byte) error
}

// SignedBlock is a block as received off the wire: a block, the author's
// signature over it, and the exact bytes transmitted. It has not yet been
// signature-checked, so only limited access to its content is appropriate;
// callers that need guaranteed-verified content must call Verify.
type SignedBlock struct {
	Block     Block
	Signature []byte

	// Serialized is the canonical encoding actually received on the wire.
	// It is attached on ingress, not recomputed from Block, so that a
	// signature verified against these exact bytes cannot be defeated by a
	// decode/re-encode round trip that happens to be byte-different.
	Serialized []byte
}

// VerifiedBlock is a typestate marker: a SignedBlock whose signature has
// been checked. Only VerifiedBlocks may be fed to the threshold clock. The
// only path from Signed to Verified is the explicit Verify call below.
type VerifiedBlock struct {
	signed SignedBlock
}

// Verify checks signed's signature with verifier and, on success, returns a
// VerifiedBlock. It is the only constructor for VerifiedBlock.
func Verify(signed SignedBlock, verifier Verifier) (VerifiedBlock, error) {
	if err := verifier.VerifyBlock(signed.Block.Author(), signed.Serialized, signed.Signature); err != nil {
		return VerifiedBlock{}, fmt.Errorf("blockdag: verify block from author %d: %w", signed.Block.Author(), err)
	}
	return VerifiedBlock{signed: signed}, nil
}

// Block returns the verified block's underlying content.
func (v VerifiedBlock) Block() Block { return v.signed.Block }

// Reference returns the BlockRef of the verified block.
func (v VerifiedBlock) Reference() BlockRef { return v.signed.Block.Reference() }

// Signature returns the author's signature over the block.
func (v VerifiedBlock) Signature() []byte { return v.signed.Signature }

// Serialized returns the exact bytes the signature was verified against.
func (v VerifiedBlock) Serialized() []byte { return v.signed.Serialized }
