package frost

import (
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// secp256k1 is the curve every BIP340Curve operation reduces to. btcec/v2
// exposes a legacy elliptic.Curve-compatible surface (ScalarBaseMult,
// ScalarMult, Add, IsOnCurve), which keeps the point arithmetic below a thin
// wrapper instead of a reimplementation of field arithmetic.
var secp256k1 = btcec.S256()

// G holds secp256k1's domain parameters: its order (G.N), base point
// (G.Gx, G.Gy) and field prime (G.P).
var G = secp256k1.Params()

// BIP340Curve implements Curve for secp256k1 as specialized by [BIP-340].
// The identity element is represented as the sentinel point (0, 0), which
// is also how btcec's Add and ScalarMult treat "no point" internally.
type BIP340Curve struct{}

func (BIP340Curve) EcBaseMul(k *big.Int) *Point {
	x, y := secp256k1.ScalarBaseMult(scalarBytes(k))
	return &Point{X: x, Y: y}
}

func (BIP340Curve) EcMul(p *Point, k *big.Int) *Point {
	x, y := secp256k1.ScalarMult(p.X, p.Y, scalarBytes(k))
	return &Point{X: x, Y: y}
}

func (BIP340Curve) EcAdd(p, q *Point) *Point {
	x, y := secp256k1.Add(p.X, p.Y, q.X, q.Y)
	return &Point{X: x, Y: y}
}

func (BIP340Curve) EcSub(p, q *Point) *Point {
	negY := new(big.Int).Sub(G.P, q.Y)
	negY.Mod(negY, G.P)
	x, y := secp256k1.Add(p.X, p.Y, q.X, negY)
	return &Point{X: x, Y: y}
}

func (BIP340Curve) Identity() *Point {
	return &Point{X: big.NewInt(0), Y: big.NewInt(0)}
}

func (BIP340Curve) Order() *big.Int {
	return G.N
}

// IsPointOnCurve reports whether p is a valid, non-identity point.
func (BIP340Curve) IsPointOnCurve(p *Point) bool {
	if p == nil || p.X == nil || p.Y == nil {
		return false
	}
	if p.X.Sign() == 0 && p.Y.Sign() == 0 {
		return false
	}
	return secp256k1.IsOnCurve(p.X, p.Y)
}

// SerializedPointLength returns the length, in bytes, of the x-only
// [BIP-340] point encoding used by SerializePoint.
func (BIP340Curve) SerializedPointLength() int {
	return 32
}

// SerializePoint implements [BIP-340]'s bytes(P): the 32-byte big-endian
// encoding of P's x-coordinate.
func (BIP340Curve) SerializePoint(p *Point) []byte {
	return pad32(p.X.Bytes())
}

// DeserializePoint implements [BIP-340]'s lift_x(x).
func (BIP340Curve) DeserializePoint(b []byte) (*Point, error) {
	return liftX(new(big.Int).SetBytes(b))
}

// liftX implements lift_x(x) from [BIP-340]: given an x-coordinate in
// range, returns the point on secp256k1 with that x-coordinate and an even
// y-coordinate.
func liftX(x *big.Int) (*Point, error) {
	if x.Sign() < 0 || x.Cmp(G.P) >= 0 {
		return nil, errors.New("frost: x-coordinate out of range")
	}

	ySq := new(big.Int).Exp(x, big.NewInt(3), G.P)
	ySq.Add(ySq, big.NewInt(7))
	ySq.Mod(ySq, G.P)

	y := new(big.Int).ModSqrt(ySq, G.P)
	if y == nil {
		return nil, errors.New("frost: x is not a valid curve coordinate")
	}
	if y.Bit(0) != 0 {
		y.Sub(G.P, y)
	}

	return &Point{X: x, Y: y}, nil
}

func scalarBytes(k *big.Int) []byte {
	return pad32(new(big.Int).Mod(k, G.N).Bytes())
}

func pad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
