package frost

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Signer drives one participant's side of the two-round [FROST] signing
// protocol: producing a nonce/commitment pair in Round1 and, once handed
// the full commitment list for a session, a signature share in Round2.
type Signer struct {
	Participant

	signerIndex    uint64   // i in [FROST]
	secretKeyShare *big.Int // sk_i in [FROST]
}

// NewSigner constructs a Signer for signerIndex holding secretKeyShare,
// verifying under groupPublicKey via ciphersuite.
func NewSigner(
	ciphersuite Ciphersuite,
	signerIndex uint64,
	groupPublicKey *Point,
	secretKeyShare *big.Int,
) *Signer {
	return &Signer{
		Participant:    Participant{ciphersuite: ciphersuite, publicKey: groupPublicKey},
		signerIndex:    signerIndex,
		secretKeyShare: secretKeyShare,
	}
}

// Nonce is the secret pair (hiding, binding) a signer generates in Round1
// and must hold onto, unpublished, until Round2.
type Nonce struct {
	hidingNonce  *big.Int
	bindingNonce *big.Int
}

// Round1 produces a fresh hiding/binding nonce pair and the corresponding
// public commitments, per [FROST] §5.1. Each nonce is independently
// sampled: reusing one nonce for both roles would let an adversary cancel
// out the binding factor and forge shares.
func (s *Signer) Round1() (*Nonce, *NonceCommitment, error) {
	hiding, err := s.generateNonce(s.secretKeyShare.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("hiding nonce generation failed: [%v]", err)
	}
	binding, err := s.generateNonce(s.secretKeyShare.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("binding nonce generation failed: [%v]", err)
	}

	curve := s.ciphersuite.Curve()
	commitment := &NonceCommitment{
		signerIndex:            s.signerIndex,
		hidingNonceCommitment:  curve.EcBaseMul(hiding),
		bindingNonceCommitment: curve.EcBaseMul(binding),
	}
	return &Nonce{hiding, binding}, commitment, nil
}

// generateNonce samples 32 random bytes and hashes them together with the
// signer's secret key share under H3, so the resulting scalar is tied to
// this signer even if the random source were ever weak.
func (s *Signer) generateNonce(secret []byte) (*big.Int, error) {
	entropy := make([]byte, 32)
	if _, err := rand.Read(entropy); err != nil {
		return nil, err
	}
	return s.ciphersuite.H3(entropy, secret), nil
}

// Round2 consumes the nonce this signer generated in Round1 together with
// the full set of commitments gathered for the session, and returns this
// signer's share of the group signature, per [FROST] §5.2.
func (s *Signer) Round2(
	message []byte,
	nonce *Nonce,
	commitments []*NonceCommitment,
) (*big.Int, error) {
	validationErrs, participants := s.validateGroupCommitments(s.signerIndex, commitments)
	if len(validationErrs) != 0 {
		return nil, errors.Join(validationErrs...)
	}

	factors := s.computeBindingFactors(message, commitments)
	groupCommitment := s.computeGroupCommitment(commitments, factors)
	lambda := s.deriveInterpolatingValue(s.signerIndex, participants)
	challenge := s.computeChallenge(message, groupCommitment)

	// z_i = hiding_nonce + binding_nonce * rho_i + lambda_i * sk_i * e
	boundNonce := new(big.Int).Mul(nonce.bindingNonce, factors[s.signerIndex])
	weightedShare := new(big.Int).Mul(lambda, s.secretKeyShare)
	weightedShare.Mul(weightedShare, challenge)

	share := new(big.Int).Add(nonce.hidingNonce, boundNonce)
	share.Add(share, weightedShare)
	share.Mod(share, s.ciphersuite.Curve().Order())

	return share, nil
}
