package ephemeral

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// nonceLength is the length, in bytes, of the nacl/secretbox nonce box
// prepends to every ciphertext it produces.
const nonceLength = 24

// box is a symmetric authenticated encryption box keyed by a 32-byte secret.
// It is the mechanism behind SymmetricEcdhKey; the key it holds is derived
// from an ECDH exchange and never used for anything else.
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

// encrypt seals plaintext under b's key with a fresh random nonce, prepended
// to the returned ciphertext.
func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

// decrypt opens a ciphertext produced by encrypt. It fails closed: any
// truncation, corruption, or key mismatch is reported as the same opaque
// error so callers cannot distinguish malformed input from a wrong key.
func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceLength {
		return nil, errors.New("symmetric key decryption failed")
	}

	var nonce [nonceLength]byte
	copy(nonce[:], ciphertext[:nonceLength])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceLength:], &nonce, &b.key)
	if !ok {
		return nil, errors.New("symmetric key decryption failed")
	}

	return plaintext, nil
}
