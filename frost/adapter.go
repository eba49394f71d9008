package frost

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"threshold.network/roast/scheme"
)

// JointKey is the BIP-340/FROST representation of a joint key: the group's
// public key plus each signer's own verification share (its public key
// share, PK_i in [FROST]), as produced by a trusted-dealer or DKG keygen.
type JointKey struct {
	GroupPublicKey     *Point
	VerificationShares map[uint64]*Point
}

// BIP340 implements scheme.Scheme for the [BIP-340] specialization of
// [FROST] over secp256k1. It is the adapter's only exported entry point;
// the coordinator and signer driver hold one of these and never reach past
// it into curve or hash details.
type BIP340 struct {
	ciphersuite *Bip340Ciphersuite
}

// NewBIP340 constructs the BIP-340/FROST scheme adapter.
func NewBIP340() *BIP340 {
	return &BIP340{ciphersuite: NewBip340Ciphersuite()}
}

func (a *BIP340) participant(key *JointKey) *Participant {
	return &Participant{ciphersuite: a.ciphersuite, publicKey: key.GroupPublicKey}
}

// GenNonce produces a fresh nonce key pair for secretShare, implementing
// Round One - Commitment from [FROST], section 5.1.
func (a *BIP340) GenNonce(
	rng io.Reader,
	key *JointKey,
	secretShare *big.Int,
) (scheme.NonceKeyPair[*Nonce, *NonceCommitment], error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rng, b); err != nil {
		return scheme.NonceKeyPair[*Nonce, *NonceCommitment]{}, err
	}
	hn := a.ciphersuite.H3(b, secretShare.Bytes())

	if _, err := io.ReadFull(rng, b); err != nil {
		return scheme.NonceKeyPair[*Nonce, *NonceCommitment]{}, err
	}
	bn := a.ciphersuite.H3(b, secretShare.Bytes())

	curve := a.ciphersuite.Curve()
	hnc := curve.EcBaseMul(hn)
	bnc := curve.EcBaseMul(bn)

	return scheme.NonceKeyPair[*Nonce, *NonceCommitment]{
		Private: &Nonce{hidingNonce: hn, bindingNonce: bn},
		Public:  &NonceCommitment{bindingNonceCommitment: bnc, hidingNonceCommitment: hnc},
	}, nil
}

// Sign produces signerIndex's partial signature, implementing Round Two -
// Signature Share Generation from [FROST], section 5.2.
func (a *BIP340) Sign(
	key *JointKey,
	nonceSet []scheme.SignerNonce[*NonceCommitment],
	signerIndex uint32,
	secretShare *big.Int,
	myNonce scheme.NonceKeyPair[*Nonce, *NonceCommitment],
	message []byte,
) (*big.Int, error) {
	p := a.participant(key)
	commitments := toCommitments(nonceSet)

	validationErrors, participants := p.validateGroupCommitments(uint64(signerIndex), commitments)
	if len(validationErrors) != 0 {
		return nil, errors.Join(validationErrors...)
	}

	factors := p.computeBindingFactors(message, commitments)
	bindingFactor := factors[uint64(signerIndex)]
	groupCommitment := p.computeGroupCommitment(commitments, factors)
	lambda := p.deriveInterpolatingValue(uint64(signerIndex), participants)
	challenge := p.computeChallenge(message, groupCommitment)

	bnbf := new(big.Int).Mul(myNonce.Private.bindingNonce, bindingFactor)
	lski := new(big.Int).Mul(lambda, secretShare)
	lskic := new(big.Int).Mul(lski, challenge)

	sigShare := new(big.Int).Add(myNonce.Private.hidingNonce, new(big.Int).Add(bnbf, lskic))
	sigShare.Mod(sigShare, a.ciphersuite.Curve().Order())

	return sigShare, nil
}

// VerifyShare implements verify_signature_share from [FROST] (the
// identifiable-abort check): it recomputes the binding factor, group
// commitment and interpolating value for signerIndex and checks that
// share*G equals the commitment share plus PK_i raised to challenge*lambda.
func (a *BIP340) VerifyShare(
	key *JointKey,
	nonceSet []scheme.SignerNonce[*NonceCommitment],
	signerIndex uint32,
	share *big.Int,
	message []byte,
) bool {
	pkI, ok := key.VerificationShares[uint64(signerIndex)]
	if !ok || share == nil {
		return false
	}

	p := a.participant(key)
	commitments := toCommitments(nonceSet)

	validationErrors, participants := p.validateGroupCommitments(uint64(signerIndex), commitments)
	if len(validationErrors) != 0 {
		return false
	}

	var commitI *NonceCommitment
	for _, c := range commitments {
		if c.signerIndex == uint64(signerIndex) {
			commitI = c
			break
		}
	}
	if commitI == nil {
		return false
	}

	curve := a.ciphersuite.Curve()

	factors := p.computeBindingFactors(message, commitments)
	bindingFactor := factors[uint64(signerIndex)]
	groupCommitment := p.computeGroupCommitment(commitments, factors)
	lambda := p.deriveInterpolatingValue(uint64(signerIndex), participants)
	challenge := p.computeChallenge(message, groupCommitment)

	// comm_share = hiding_nonce_commitment + binding_nonce_commitment^binding_factor
	commShare := curve.EcAdd(
		commitI.hidingNonceCommitment,
		curve.EcMul(commitI.bindingNonceCommitment, bindingFactor),
	)

	cLambda := new(big.Int).Mul(challenge, lambda)

	// l = share*G, r = comm_share + PK_i^(challenge*lambda)
	l := curve.EcBaseMul(share)
	r := curve.EcAdd(commShare, curve.EcMul(pkI, cLambda))

	return l.X.Cmp(r.X) == 0 && l.Y.Cmp(r.Y) == 0
}

// Combine implements Signature Share Aggregation from [FROST], section 5.3.
// It is only ever called with shares that already passed VerifyShare, so no
// further validation of the shares themselves is performed here.
func (a *BIP340) Combine(
	key *JointKey,
	nonceSet []scheme.SignerNonce[*NonceCommitment],
	shares []*big.Int,
	message []byte,
) (*Signature, error) {
	if len(shares) != len(nonceSet) {
		return nil, fmt.Errorf(
			"the number of commitments and signature shares do not match; "+
				"has [%d] commitments and [%d] signature shares",
			len(nonceSet), len(shares),
		)
	}

	p := a.participant(key)
	commitments := toCommitments(nonceSet)

	validationErrors, _ := p.validateGroupCommitments(firstIndex(nonceSet), commitments)
	if len(validationErrors) != 0 {
		return nil, errors.Join(validationErrors...)
	}

	factors := p.computeBindingFactors(message, commitments)
	groupCommitment := p.computeGroupCommitment(commitments, factors)

	curve := a.ciphersuite.Curve()
	z := big.NewInt(0)
	for _, zi := range shares {
		z.Add(z, zi)
		z.Mod(z, curve.Order())
	}

	return &Signature{R: groupCommitment, Z: z}, nil
}

// toCommitments turns a coordinator-supplied nonce set into the sorted
// []*NonceCommitment list the [FROST] math in Participant expects. The
// coordinator's nonce set is built from the frozen responsive set at the
// moment a session opens, so it always already includes every member's own
// commitment; no self-injection is needed here.
func toCommitments(nonceSet []scheme.SignerNonce[*NonceCommitment]) []*NonceCommitment {
	out := make([]*NonceCommitment, 0, len(nonceSet))
	for _, n := range nonceSet {
		c := n.Nonce
		if c != nil {
			c.signerIndex = uint64(n.SignerIndex)
		}
		out = append(out, c)
	}
	return sortedCommitments(out)
}

// commitmentIndex reports a nil commitment's sort key as the maximum
// possible index, so validateGroupCommitments (not the sort) is what
// reports a nil entry as invalid.
func commitmentIndex(c *NonceCommitment) uint64 {
	if c == nil {
		return ^uint64(0)
	}
	return c.signerIndex
}

func sortedCommitments(commitments []*NonceCommitment) []*NonceCommitment {
	for i := 1; i < len(commitments); i++ {
		for j := i; j > 0 && commitmentIndex(commitments[j-1]) > commitmentIndex(commitments[j]); j-- {
			commitments[j-1], commitments[j] = commitments[j], commitments[j-1]
		}
	}
	return commitments
}

func firstIndex(nonceSet []scheme.SignerNonce[*NonceCommitment]) uint64 {
	if len(nonceSet) == 0 {
		return 0
	}
	return uint64(nonceSet[0].SignerIndex)
}
