package umbral

// capsuleFragProof is the correctness proof attached to every capsule
// fragment: a Chaum-Pedersen style proof that E1, V1 and the kfrag
// commitment were all raised by the same share scalar, plus the original
// kfrag signature so provenance stays checkable without the kfrag itself.
type capsuleFragProof struct {
	e2             Point
	v2             Point
	commitment     Point
	pok            Point
	signature      Scalar
	kfragSignature *Signature
	metadata       Scalar
}

// CapsuleFrag is the result of applying one KFrag to one Capsule; a
// threshold of distinct fragments reconstructs the delegatee's decryption
// capability.
type CapsuleFrag struct {
	params         *Parameters
	e1             Point
	v1             Point
	id             Scalar
	precursor      Point
	proof          *capsuleFragProof
	signDelegating bool
	signReceiving  bool
}

// ID returns the originating key fragment's identifier bytes.
func (cf *CapsuleFrag) ID() []byte {
	return cf.id.Bytes()
}

// Reencrypt transforms a capsule with one key fragment, producing a
// capsule fragment. It is stateless, touches no secret keys, and any
// number of proxies may run it concurrently for the same capsule. The
// optional metadata is hashed into the correctness proof, binding the
// fragment to a re-encryption context without altering the transform
// itself.
func Reencrypt(capsule *Capsule, kfrag *KFrag, metadata []byte) (*CapsuleFrag, error) {
	if !capsule.params.Equal(kfrag.params) {
		return nil, ErrParametersMismatch
	}
	if !capsule.Verify() {
		return nil, ErrInvalidCapsule
	}
	curve := capsule.params.curve

	e1 := capsule.e.Mul(kfrag.key)
	v1 := capsule.v.Mul(kfrag.key)

	metadataScalar := curve.ScalarZero()
	if len(metadata) > 0 {
		metadataScalar = hashToScalar(curve, dstMetadata, nil, metadata)
	}

	proof, err := newCapsuleFragProof(capsule, kfrag, e1, v1, metadataScalar)
	if err != nil {
		return nil, err
	}

	return &CapsuleFrag{
		params:         capsule.params,
		e1:             e1,
		v1:             v1,
		id:             kfrag.id,
		precursor:      kfrag.precursor,
		proof:          proof,
		signDelegating: kfrag.signDelegating,
		signReceiving:  kfrag.signReceiving,
	}, nil
}

func newCapsuleFragProof(capsule *Capsule, kfrag *KFrag, e1, v1 Point, metadata Scalar) (*capsuleFragProof, error) {
	params := capsule.params
	curve := params.curve

	t, err := curve.ScalarRandom()
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	defer t.Zeroize()

	e2 := capsule.e.Mul(t)
	v2 := capsule.v.Mul(t)
	u2 := params.u.Mul(t)

	h := proofChallenge(capsule, e1, v1, e2, v2, kfrag.commitment, u2, metadata)
	z := t.Add(kfrag.key.Mul(h))

	return &capsuleFragProof{
		e2:             e2,
		v2:             v2,
		commitment:     kfrag.commitment,
		pok:            u2,
		signature:      z,
		kfragSignature: kfrag.signature,
		metadata:       metadata,
	}, nil
}

// proofChallenge hashes the full nine-point proof transcript plus the
// metadata digest into the Fiat-Shamir challenge.
func proofChallenge(capsule *Capsule, e1, v1, e2, v2, u1, u2 Point, metadata Scalar) Scalar {
	params := capsule.params
	transcript := []Point{
		capsule.e, e1, e2,
		capsule.v, v1, v2,
		params.u, u1, u2,
	}
	return hashToScalar(params.curve, dstProof, transcript, metadata.Bytes())
}

// Verify checks the fragment against the capsule it claims to transform
// and the three identities of its delegation: the proof equations tie E1,
// V1 and the commitment to one share scalar, and the carried kfrag
// signature ties that share to the signer and the delegation identities.
// Pure, side-effect free, safe to run concurrently; returns false on any
// mismatch. All checks are evaluated before combining so the verdict's
// timing does not depend on which one failed.
func (cf *CapsuleFrag) Verify(capsule *Capsule, delegating, receiving, verifying *PublicKey) bool {
	if capsule == nil || !cf.params.Equal(capsule.params) {
		return false
	}
	if verifying == nil {
		return false
	}
	if cf.signDelegating && delegating == nil {
		return false
	}
	if cf.signReceiving && receiving == nil {
		return false
	}
	proof := cf.proof
	h := proofChallenge(capsule, cf.e1, cf.v1, proof.e2, proof.v2,
		proof.commitment, proof.pok, proof.metadata)

	payload := kfragSignedPayload(cf.id, proof.commitment, cf.precursor,
		cf.signDelegating, cf.signReceiving, delegating, receiving)
	signatureOK := verifying.Verify(payload, proof.kfragSignature)

	z := proof.signature
	eOK := capsule.e.Mul(z).Equal(proof.e2.Add(cf.e1.Mul(h)))
	vOK := capsule.v.Mul(z).Equal(proof.v2.Add(cf.v1.Mul(h)))
	uOK := cf.params.u.Mul(z).Equal(proof.pok.Add(proof.commitment.Mul(h)))

	return signatureOK && eOK && vOK && uOK
}
