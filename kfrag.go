package umbral

// KFrag is one share of a threshold-split re-encryption capability, bound
// to a specific delegator/delegatee pair and signed by the delegator's
// signing identity. A proxy holding a KFrag can re-encrypt any capsule
// addressed to the delegator; it learns nothing about the delegator's
// secret key from it.
type KFrag struct {
	params         *Parameters
	id             Scalar
	key            Scalar
	precursor      Point
	commitment     Point
	signature      *Signature
	signDelegating bool
	signReceiving  bool
}

// ID returns the fragment's identifier bytes, unique within its
// generation batch.
func (k *KFrag) ID() []byte {
	return k.id.Bytes()
}

// GenerateKFrags splits a re-encryption key from the delegating party to
// the receiving party into n verifiable fragments, any threshold of which
// reconstruct the delegated capability. The signDelegating/signReceiving
// flags control whether the respective public key is bound into each
// fragment's signature, which fixes what later verification can check.
func GenerateKFrags(
	params *Parameters,
	delegating *SecretKey,
	receiving *PublicKey,
	signing *SecretKey,
	threshold, shares uint,
	signDelegating, signReceiving bool,
) ([]*KFrag, error) {
	if err := validateThreshold(threshold, shares); err != nil {
		return nil, err
	}
	if !params.Equal(delegating.params) || !params.Equal(receiving.params) || !params.Equal(signing.params) {
		return nil, ErrParametersMismatch
	}
	curve := params.curve
	delegatingPub := delegating.PublicKey()

	// Precursor: an ephemeral keypair whose DH with the delegatee makes
	// the delegation non-interactive. The delegatee recomputes the same
	// DH point from its secret key at decryption time.
	precursorSecret, err := curve.ScalarRandom()
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	defer precursorSecret.Zeroize()
	precursor := params.g.Mul(precursorSecret)
	dhPoint := receiving.point.Mul(precursorSecret)
	transcript := []Point{precursor, receiving.point, dhPoint}

	d := hashToScalar(curve, dstNonInteractive, transcript)
	dInv, err := d.Invert()
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}

	// The shared secret is the delegating key blinded by d; only the
	// combination with the delegatee's DH value undoes the blinding.
	coeffZero := delegating.scalar.Mul(dInv)
	poly, err := newRandomPolynomial(curve, int(threshold)-1, coeffZero)
	if err != nil {
		return nil, err
	}
	defer poly.zeroize()

	kfrags := make([]*KFrag, 0, shares)
	for i := uint(0); i < shares; i++ {
		id, err := curve.ScalarRandom()
		if err != nil {
			return nil, ErrEntropyFailure.WithCause(err)
		}
		node := hashToScalar(curve, dstShareIndex, transcript, id.Bytes())
		rk := poly.evaluate(node)
		commitment := params.u.Mul(rk)

		payload := kfragSignedPayload(id, commitment, precursor,
			signDelegating, signReceiving, delegatingPub, receiving)
		signature, err := signing.Sign(payload)
		if err != nil {
			return nil, err
		}

		kfrags = append(kfrags, &KFrag{
			params:         params,
			id:             id,
			key:            rk,
			precursor:      precursor,
			commitment:     commitment,
			signature:      signature,
			signDelegating: signDelegating,
			signReceiving:  signReceiving,
		})
	}
	return kfrags, nil
}

// kfragSignedPayload builds the byte string the signing identity commits
// to for one fragment. The flag byte is always included so a signature
// over "keys omitted" can never be replayed as one over "keys included".
func kfragSignedPayload(
	id Scalar,
	commitment, precursor Point,
	signDelegating, signReceiving bool,
	delegating, receiving *PublicKey,
) []byte {
	payload := make([]byte, 0, 4*len(commitment.Bytes())+len(id.Bytes())+1)
	payload = append(payload, id.Bytes()...)
	payload = append(payload, commitment.Bytes()...)
	payload = append(payload, precursor.Bytes()...)
	payload = append(payload, kfragFlagByte(signDelegating, signReceiving))
	if signDelegating {
		payload = append(payload, delegating.Bytes()...)
	}
	if signReceiving {
		payload = append(payload, receiving.Bytes()...)
	}
	return payload
}

func kfragFlagByte(signDelegating, signReceiving bool) byte {
	var b byte
	if signDelegating {
		b |= 0x01
	}
	if signReceiving {
		b |= 0x02
	}
	return b
}

// Verify checks that the fragment is well formed: the commitment matches
// the share scalar, and the signature binds it to the expected identities.
// The delegating/receiving keys may be nil when the corresponding flag was
// not set at generation time. Returns false on any mismatch, never errors;
// a false fragment must be discarded, not re-encrypted with.
func (k *KFrag) Verify(verifying, delegating, receiving *PublicKey) bool {
	if verifying == nil || !k.params.Equal(verifying.params) {
		return false
	}
	if k.signDelegating && delegating == nil {
		return false
	}
	if k.signReceiving && receiving == nil {
		return false
	}
	commitmentOK := k.params.u.Mul(k.key).Equal(k.commitment)

	payload := kfragSignedPayload(k.id, k.commitment, k.precursor,
		k.signDelegating, k.signReceiving, delegating, receiving)
	signatureOK := verifying.Verify(payload, k.signature)

	return commitmentOK && signatureOK
}
