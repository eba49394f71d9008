package roast

import (
	"errors"
	"io"
	"math/big"

	"threshold.network/roast/scheme"
)

// Signer is the per-message, per-participant driver described in the
// design's component 2: it holds the local secret share, the message, and
// a pool of unused local nonces, and is generic over the threshold
// scheme's NonceSigner half. A Signer holds no cross-signer invariants.
// Its errors come from the scheme adapter (a malformed nonce set, corrupted
// inputs), or from Sign finding the nonce pool empty, which happens only
// after an earlier Sign call failed inside the adapter; none of them is a
// protocol fault.
type Signer[Key any, Priv any, PubNonce any] struct {
	scheme      scheme.NonceSigner[Key, Priv, PubNonce]
	key         Key
	index       uint32
	secretShare *big.Int
	message     []byte

	// pool holds unused NonceKeyPairs in FIFO order. In healthy operation
	// it holds exactly one: the nonce a just-opened session will consume.
	pool []scheme.NonceKeyPair[Priv, PubNonce]
}

// NewSigner constructs a Signer for index holding secretShare over message,
// generating its first nonce and returning its public half for submission
// to the coordinator as the signer's opening move.
func NewSigner[Key any, Priv any, PubNonce any](
	rng io.Reader,
	sch scheme.NonceSigner[Key, Priv, PubNonce],
	key Key,
	index uint32,
	secretShare *big.Int,
	message []byte,
) (*Signer[Key, Priv, PubNonce], PubNonce, error) {
	s := &Signer[Key, Priv, PubNonce]{
		scheme:      sch,
		key:         key,
		index:       index,
		secretShare: secretShare,
		message:     append([]byte(nil), message...),
	}

	nkp, err := sch.GenNonce(rng, key, secretShare)
	if err != nil {
		var zero PubNonce
		return nil, zero, err
	}
	s.pool = append(s.pool, nkp)

	return s, nkp.Public, nil
}

// NewNonce appends a fresh nonce to the pool and returns it, for a signer
// that wants to speculatively refresh its standing nonce without signing.
func (s *Signer[Key, Priv, PubNonce]) NewNonce(
	rng io.Reader,
) (scheme.NonceKeyPair[Priv, PubNonce], error) {
	nkp, err := s.scheme.GenNonce(rng, s.key, s.secretShare)
	if err != nil {
		return scheme.NonceKeyPair[Priv, PubNonce]{}, err
	}
	s.pool = append(s.pool, nkp)
	return nkp, nil
}

// Sign pops one unused NonceKeyPair from the pool and produces this
// signer's partial signature over nonceSet, then generates and pushes a
// replacement nonce before returning. The popped nonce is never reused.
func (s *Signer[Key, Priv, PubNonce]) Sign(
	rng io.Reader,
	nonceSet []scheme.SignerNonce[PubNonce],
) (*big.Int, PubNonce, error) {
	if len(s.pool) == 0 {
		var zero PubNonce
		return nil, zero, errors.New("roast: signer has no unused nonce to sign with")
	}

	myNonce := s.pool[0]
	s.pool = s.pool[1:]

	share, err := s.scheme.Sign(s.key, nonceSet, s.index, s.secretShare, myNonce, s.message)
	if err != nil {
		var zero PubNonce
		return nil, zero, err
	}

	next, err := s.scheme.GenNonce(rng, s.key, s.secretShare)
	if err != nil {
		var zero PubNonce
		return nil, zero, err
	}
	s.pool = append(s.pool, next)

	return share, next.Public, nil
}

// Index reports the signer's fixed participant index.
func (s *Signer[Key, Priv, PubNonce]) Index() uint32 {
	return s.index
}
