package umbral

// Signature is a Schnorr signature over the scheme's curve. It binds key
// fragments to the signing identity that issued them, and verifies through
// the same Scalar/Point abstraction on either supported curve.
type Signature struct {
	challenge Scalar
	response  Scalar
}

// Sign produces a Schnorr signature over the message with a fresh nonce.
func (sk *SecretKey) Sign(message []byte) (*Signature, error) {
	nonce, err := sk.params.curve.ScalarRandom()
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	defer nonce.Zeroize()

	commitment := sk.params.g.Mul(nonce)
	publicPoint := sk.params.g.Mul(sk.scalar)

	// Fiat-Shamir: c = H(R, X, message), s = r + c*x.
	challenge := hashToScalar(sk.params.curve, dstSignature,
		[]Point{commitment, publicPoint}, message)
	response := nonce.Add(challenge.Mul(sk.scalar))

	return &Signature{challenge: challenge, response: response}, nil
}

// Verify checks a Schnorr signature against the public key. It never
// errors; any malformed input verifies as false.
func (pk *PublicKey) Verify(message []byte, sig *Signature) bool {
	if sig == nil || sig.challenge == nil || sig.response == nil {
		return false
	}
	// R' = g^s - X^c; the signature is valid iff H(R', X, message)
	// reproduces the challenge.
	commitment := pk.params.g.Mul(sig.response).Sub(pk.point.Mul(sig.challenge))
	expected := hashToScalar(pk.params.curve, dstSignature,
		[]Point{commitment, pk.point}, message)
	return expected.Equal(sig.challenge)
}

// Bytes returns the challenge-then-response encoding of the signature.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, 2*len(sig.challenge.Bytes()))
	out = append(out, sig.challenge.Bytes()...)
	out = append(out, sig.response.Bytes()...)
	return out
}

// SignatureFromBytes restores a signature from its canonical encoding.
func SignatureFromBytes(params *Parameters, data []byte) (*Signature, error) {
	size := params.curve.ScalarSize()
	if len(data) != 2*size {
		return nil, ErrInvalidEncoding.WithDetails("signature must be %d bytes, got %d", 2*size, len(data))
	}
	challenge, err := params.curve.ScalarFromBytes(data[:size])
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	response, err := params.curve.ScalarFromBytes(data[size:])
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	return &Signature{challenge: challenge, response: response}, nil
}
