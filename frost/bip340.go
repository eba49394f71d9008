package frost

import (
	"errors"
	"math/big"
)

// Bip340Ciphersuite implements Ciphersuite for the [BIP-340] specialization
// of [FROST] over secp256k1.
type Bip340Ciphersuite struct {
	Bip340Hash
}

// NewBip340Ciphersuite constructs the BIP-340 ciphersuite.
func NewBip340Ciphersuite() *Bip340Ciphersuite {
	return &Bip340Ciphersuite{}
}

// Curve returns the secp256k1 curve implementation backing this ciphersuite.
func (c *Bip340Ciphersuite) Curve() Curve {
	return BIP340Curve{}
}

// Signature is a combined Schnorr signature: a group commitment and a
// scalar, verifiable under the joint public key via VerifySignature.
type Signature struct {
	R *Point
	Z *big.Int
}

// VerifySignature checks that z*G == R + e*P, where e is the [FROST]
// challenge over (R, publicKey, message). This is the same equation
// Combine assembles sig.Z to satisfy.
func (c *Bip340Ciphersuite) VerifySignature(
	sig *Signature,
	publicKey *Point,
	message []byte,
) (bool, error) {
	if sig == nil || sig.R == nil || sig.Z == nil {
		return false, errors.New("frost: malformed signature")
	}

	curve := c.Curve()
	if !curve.IsPointOnCurve(publicKey) {
		return false, errors.New("frost: public key is not a valid curve point")
	}
	if !curve.IsPointOnCurve(sig.R) {
		return false, errors.New("frost: signature group commitment is not a valid curve point")
	}
	if sig.Z.Sign() < 0 || sig.Z.Cmp(curve.Order()) >= 0 {
		return false, errors.New("frost: signature scalar out of range")
	}

	rEnc := curve.SerializePoint(sig.R)
	pEnc := curve.SerializePoint(publicKey)
	e := c.H2(rEnc, pEnc, message)

	lhs := curve.EcBaseMul(sig.Z)
	rhs := curve.EcAdd(sig.R, curve.EcMul(publicKey, e))

	return lhs.X.Cmp(rhs.X) == 0 && lhs.Y.Cmp(rhs.Y) == 0, nil
}
