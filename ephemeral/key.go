package ephemeral

import (
	"github.com/btcsuite/btcd/btcec"
)

// PrivateKey is an ephemeral elliptic curve private key. It is never
// serialized or persisted; it lives only long enough to be ECDH'd against a
// peer's PublicKey to derive a SymmetricEcdhKey.
type PrivateKey btcec.PrivateKey

// PublicKey is the public half of PrivateKey, broadcast to a peer so that
// peer can derive the same SymmetricEcdhKey from its own PrivateKey.
type PublicKey btcec.PublicKey

// KeyPair is an ephemeral PrivateKey and PublicKey generated together for a
// single run of a point-to-point encrypted channel.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey
}

// GenerateKeyPair creates a fresh ephemeral key pair on secp256k1.
func GenerateKeyPair() (*KeyPair, error) {
	ecdsaKey, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PrivateKey: (*PrivateKey)(ecdsaKey),
		PublicKey:  (*PublicKey)(&ecdsaKey.PublicKey),
	}, nil
}
