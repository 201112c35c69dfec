package umbral

import (
	"crypto/cipher"
	"crypto/rand"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// dem is the data-encapsulation mechanism: ChaCha20-Poly1305 under a key
// expanded from the encapsulated shared point with HKDF-BLAKE2b. The
// capsule bytes ride along as associated data so a ciphertext can only
// open next to the capsule it was produced with.
type dem struct {
	aead cipher.AEAD
}

func blake2bHash() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func newDEM(keySeed []byte) (*dem, error) {
	kdf := hkdf.New(blake2bHash, keySeed, nil, nil)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	defer ZeroizeBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	return &dem{aead: aead}, nil
}

// encrypt seals the plaintext under a fresh random nonce. The output
// layout is nonce || ciphertext || tag.
func (d *dem) encrypt(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, d.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	return d.aead.Seal(nonce, nonce, plaintext, aad), nil
}

// decrypt opens a nonce-prefixed ciphertext. Any integrity failure maps to
// ErrAuthenticationFailure without further detail: the failure reason is
// deliberately indistinguishable to the caller.
func (d *dem) decrypt(ciphertext, aad []byte) ([]byte, error) {
	if len(ciphertext) < d.aead.NonceSize()+d.aead.Overhead() {
		return nil, ErrAuthenticationFailure
	}
	nonce := ciphertext[:d.aead.NonceSize()]
	plaintext, err := d.aead.Open(nil, nonce, ciphertext[d.aead.NonceSize():], aad)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}
