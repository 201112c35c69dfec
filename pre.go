// Package umbral implements an Umbral-style threshold proxy re-encryption
// scheme: a delegator encrypts under her own public key, splits a
// re-encryption capability into n verifiable key fragments, and any m of
// the resulting capsule fragments let the delegatee decrypt, without the
// proxies or the delegatee ever seeing the delegator's secret key or the
// plaintext.
//
// All operations are pure functions over immutable inputs and are safe for
// concurrent use. The package holds no state between calls; storage and
// transport of keys and fragments are the caller's concern.
package umbral

// Encrypt encapsulates a fresh symmetric key for the recipient and seals
// the plaintext under it. The returned ciphertext is paired 1:1 with the
// returned capsule and opens only next to it.
func Encrypt(params *Parameters, pk *PublicKey, plaintext []byte) (*Capsule, []byte, error) {
	if !params.Equal(pk.params) {
		return nil, nil, ErrParametersMismatch
	}
	capsule, keySeed, err := encapsulate(params, pk)
	if err != nil {
		return nil, nil, err
	}
	defer ZeroizeBytes(keySeed)

	dem, err := newDEM(keySeed)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, err := dem.encrypt(plaintext, capsule.Bytes())
	if err != nil {
		return nil, nil, err
	}
	return capsule, ciphertext, nil
}

// DecryptOriginal recovers the plaintext with the secret key the capsule
// was addressed to. The only failure mode is ErrAuthenticationFailure:
// wrong key, tampered ciphertext, or a capsule/ciphertext mismatch.
func DecryptOriginal(sk *SecretKey, capsule *Capsule, ciphertext []byte) ([]byte, error) {
	if !sk.params.Equal(capsule.params) {
		return nil, ErrParametersMismatch
	}
	keySeed := capsule.openOriginal(sk)
	defer ZeroizeBytes(keySeed)

	dem, err := newDEM(keySeed)
	if err != nil {
		return nil, err
	}
	return dem.decrypt(ciphertext, capsule.Bytes())
}

// DecryptReencrypted recovers the plaintext on the delegatee's side from a
// set of capsule fragments. Fragments with duplicate ids count once.
// Callers are expected to have verified each fragment; the reconstruction
// check still catches sets that are short of the threshold or inconsistent
// (ErrInsufficientFragments), and the authenticated decryption catches
// anything that slipped past it (ErrAuthenticationFailure).
func DecryptReencrypted(
	receiving *SecretKey,
	delegating *PublicKey,
	capsule *Capsule,
	cfrags []*CapsuleFrag,
	ciphertext []byte,
) ([]byte, error) {
	if !receiving.params.Equal(capsule.params) || !delegating.params.Equal(capsule.params) {
		return nil, ErrParametersMismatch
	}
	unique := dedupeFragments(cfrags)
	if len(unique) == 0 {
		return nil, ErrInsufficientFragments
	}
	for _, cfrag := range unique {
		if !capsule.params.Equal(cfrag.params) {
			return nil, ErrParametersMismatch
		}
	}

	keySeed, err := capsule.openReencrypted(receiving, delegating, unique)
	if err != nil {
		return nil, err
	}
	defer ZeroizeBytes(keySeed)

	dem, err := newDEM(keySeed)
	if err != nil {
		return nil, err
	}
	return dem.decrypt(ciphertext, capsule.Bytes())
}
