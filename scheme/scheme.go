// Package scheme declares the threshold-scheme adapter: the narrow
// capability interface that decouples the ROAST coordinator and signer
// driver from any specific t-of-n Schnorr-style signature scheme.
//
// A concrete scheme (for example the BIP-340/FROST adapter in the frost
// package) picks concrete representations for a joint key, a private nonce,
// a public nonce, and a final signature. The coordinator and signer driver
// in the roast package never interpret these values themselves; they hold and forward them
// opaquely, keeping the adapter the single point of polymorphism between
// the protocol logic and whatever elliptic curve backs it.
package scheme

import (
	"io"
	"math/big"
)

// NonceKeyPair holds the private and public halves of a signer's Schnorr
// commitment. The private half never leaves the signer that generated it;
// the public half is what gets submitted to the coordinator and frozen into
// a session's nonce set.
type NonceKeyPair[Priv any, PubNonce any] struct {
	Private Priv
	Public  PubNonce
}

// SignerNonce pairs a public nonce with the index of the signer that
// produced it. An ordered slice of SignerNonce values is what the
// coordinator freezes into a session.
type SignerNonce[PubNonce any] struct {
	SignerIndex uint32
	Nonce       PubNonce
}

// NonceSigner is the signer-side half of the capability set: fresh nonce
// generation and partial-signature production. The Signer driver in the
// roast package is generic over this interface.
type NonceSigner[Key any, Priv any, PubNonce any] interface {
	// GenNonce produces a fresh, unpredictable nonce key pair for
	// secretShare. Reusing the returned private nonce across sessions
	// breaks unforgeability; callers must consume it exactly once.
	GenNonce(rng io.Reader, key Key, secretShare *big.Int) (NonceKeyPair[Priv, PubNonce], error)

	// Sign produces signerIndex's partial signature over message under the
	// frozen nonceSet, consuming myNonce. The result is deterministic given
	// its inputs.
	Sign(
		key Key,
		nonceSet []SignerNonce[PubNonce],
		signerIndex uint32,
		secretShare *big.Int,
		myNonce NonceKeyPair[Priv, PubNonce],
		message []byte,
	) (*big.Int, error)
}

// Verifier is the coordinator-side half of the capability set:
// identifiable-abort share verification and share combination. The
// coordinator in the roast package is generic over this interface and never
// calls GenNonce or Sign directly.
type Verifier[Key any, PubNonce any, Sig any] interface {
	// VerifyShare reports whether share is the unique correct partial
	// signature for signerIndex under nonceSet. A false result can be
	// attributed to signerIndex with certainty (identifiable abort).
	VerifyShare(
		key Key,
		nonceSet []SignerNonce[PubNonce],
		signerIndex uint32,
		share *big.Int,
		message []byte,
	) bool

	// Combine aggregates len(nonceSet) verified shares into a signature
	// that verifies as a standard Schnorr signature under the joint public
	// key carried by key. Combine is only ever called with shares that have
	// each already passed VerifyShare; a failure here indicates a bug in
	// the scheme adapter, not a faulty signer.
	Combine(
		key Key,
		nonceSet []SignerNonce[PubNonce],
		shares []*big.Int,
		message []byte,
	) (Sig, error)
}

// Scheme composes the full threshold-scheme adapter capability set. It is
// the interface a concrete scheme, such as the BIP-340/FROST adapter in the
// frost package, implements; the roast package's Coordinator and Signer
// each only depend on the half of it they actually use.
type Scheme[Key any, Priv any, PubNonce any, Sig any] interface {
	NonceSigner[Key, Priv, PubNonce]
	Verifier[Key, PubNonce, Sig]
}
