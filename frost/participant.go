package frost

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Participant holds the pieces of [FROST] state that every party in the
// protocol needs regardless of role: the ciphersuite to hash and do curve
// arithmetic with, and the joint public key the final signature must verify
// against. Signer embeds it for Round2's math; the coordinator-side scheme
// adapter builds one directly to run the same math over a signature share
// it received rather than one it produced.
type Participant struct {
	ciphersuite Ciphersuite
	publicKey   *Point // group_public_key in [FROST]
}

// NonceCommitment is the Round One output a signer publishes: its index
// plus the public commitments to its hiding and binding nonces.
type NonceCommitment struct {
	signerIndex            uint64
	hidingNonceCommitment  *Point
	bindingNonceCommitment *Point
}

// bindingFactors maps a signer index to the per-signer scalar that binds
// its nonce commitment to this particular message and commitment set,
// produced by computeBindingFactors.
type bindingFactors map[uint64]*big.Int

// validateGroupCommitments checks a commitment list against the shape
// [FROST] section 4.3's participants_from_commitment_list requires before
// it can be consumed: ascending order by signer index, no nil or
// off-curve entries, and signerIndex's own commitment present. On success
// it also returns the list of participant indices the list decodes to,
// which downstream steps need for Lagrange interpolation.
func (p *Participant) validateGroupCommitments(
	signerIndex uint64,
	commitments []*NonceCommitment,
) ([]error, []uint64) {
	var errs []error
	participants := make([]uint64, len(commitments))
	selfPresent := false

	curve := p.ciphersuite.Curve()
	prevIndex := uint64(0) // valid indices start at 1, so 0 never collides

	for i, c := range commitments {
		if c == nil {
			errs = append(errs, fmt.Errorf("commitment at position [%d] is nil", i))
			continue
		}
		if c.signerIndex <= prevIndex {
			errs = append(errs, fmt.Errorf(
				"commitments not sorted in ascending order: "+
					"commitments[%d].signerIndex=%d, commitments[%d].signerIndex=%d",
				i-1, prevIndex, i, c.signerIndex,
			))
		}
		prevIndex = c.signerIndex
		participants[i] = c.signerIndex

		if c.signerIndex == signerIndex {
			selfPresent = true
		}
		if !curve.IsPointOnCurve(c.hidingNonceCommitment) {
			errs = append(errs, fmt.Errorf(
				"hiding nonce commitment from signer [%d] is not a valid "+
					"non-identity point on the curve: [%s]",
				c.signerIndex, c.hidingNonceCommitment,
			))
		}
		if !curve.IsPointOnCurve(c.bindingNonceCommitment) {
			errs = append(errs, fmt.Errorf(
				"binding nonce commitment from signer [%d] is not a valid "+
					"non-identity point on the curve: [%s]",
				c.signerIndex, c.bindingNonceCommitment,
			))
		}
	}

	if !selfPresent {
		errs = append(errs, fmt.Errorf("signer [%d]'s commitment not found on the list", signerIndex))
	}
	if len(errs) != 0 {
		return errs, nil
	}
	return nil, participants
}

// computeBindingFactors derives a binding scalar per signer by hashing the
// group public key, the message digest, and a digest of the whole
// commitment list together with that signer's own index (H1 over the
// "rho" tag). This is what stops a malicious signer from reusing a nonce
// commitment across two different (message, commitment-set) pairs without
// it being detected: the binding factor ties the nonce to this exact
// signing attempt. See [FROST] §4.4.
//
// Callers must run validateGroupCommitments first.
func (p *Participant) computeBindingFactors(
	message []byte,
	commitments []*NonceCommitment,
) bindingFactors {
	curve := p.ciphersuite.Curve()
	prefix := concat(
		curve.SerializePoint(p.publicKey),
		p.ciphersuite.H4(message),
		p.ciphersuite.H5(p.encodeGroupCommitment(commitments)),
	)

	factors := make(bindingFactors, len(commitments))
	for _, c := range commitments {
		input := make([]byte, len(prefix)+8)
		copy(input, prefix)
		binary.BigEndian.PutUint64(input[len(prefix):], c.signerIndex)
		factors[c.signerIndex] = p.ciphersuite.H1(input)
	}
	return factors
}

// computeGroupCommitment folds every signer's hiding commitment and
// binding-scaled binding commitment into the single group commitment R
// used both in the Schnorr challenge and in each signer's share equation.
// See [FROST] §4.5.
func (p *Participant) computeGroupCommitment(
	commitments []*NonceCommitment,
	factors bindingFactors,
) *Point {
	curve := p.ciphersuite.Curve()
	r := curve.Identity()
	for _, c := range commitments {
		scaledBinding := curve.EcMul(c.bindingNonceCommitment, factors[c.signerIndex])
		r = curve.EcAdd(r, curve.EcAdd(c.hidingNonceCommitment, scaledBinding))
	}
	return r
}

// encodeGroupCommitment serializes a commitment list into the flat byte
// string that computeBindingFactors hashes under H5. See [FROST] §4.3.
func (p *Participant) encodeGroupCommitment(commitments []*NonceCommitment) []byte {
	curve := p.ciphersuite.Curve()
	pointLen := curve.SerializedPointLength()

	out := make([]byte, 0, (8+2*pointLen)*len(commitments))
	for _, c := range commitments {
		out = binary.BigEndian.AppendUint64(out, c.signerIndex)
		out = append(out, curve.SerializePoint(c.hidingNonceCommitment)...)
		out = append(out, curve.SerializePoint(c.bindingNonceCommitment)...)
	}
	return out
}

// deriveInterpolatingValue computes signer xi's Lagrange coefficient over
// the participant set L, the lambda_i in the signature share equation that
// makes the sum of shares reconstruct the group signature under Shamir
// interpolation. See [FROST] §4.2.
func (p *Participant) deriveInterpolatingValue(xi uint64, L []uint64) *big.Int {
	order := p.ciphersuite.Curve().Order()
	num, den := big.NewInt(1), big.NewInt(1)

	for _, xj := range L {
		if xj == xi {
			continue
		}
		num.Mod(num.Mul(num, big.NewInt(int64(xj))), order)
		den.Mod(den.Mul(den, big.NewInt(int64(xj)-int64(xi))), order)
	}

	lambda := new(big.Int).Mul(num, new(big.Int).ModInverse(den, order))
	return lambda.Mod(lambda, order)
}

// computeChallenge computes the Schnorr challenge e over the group
// commitment, the group public key, and the message, per [FROST] §4.6 /
// [BIP-340]'s challenge tag (see Bip340Hash.H2).
func (p *Participant) computeChallenge(message []byte, groupCommitment *Point) *big.Int {
	curve := p.ciphersuite.Curve()
	return p.ciphersuite.H2(
		curve.SerializePoint(groupCommitment),
		curve.SerializePoint(p.publicKey),
		message,
	)
}
