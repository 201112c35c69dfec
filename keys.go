package umbral

// SecretKey is a scalar secret. It is exclusively owned by its holder:
// none of the re-encryption or verification operations ever see one, and
// callers should Zeroize it when it leaves scope.
type SecretKey struct {
	params *Parameters
	scalar Scalar
}

// GenerateSecretKey draws a uniformly random nonzero scalar. It fails only
// if the entropy source does.
func GenerateSecretKey(params *Parameters) (*SecretKey, error) {
	scalar, err := params.curve.ScalarRandom()
	if err != nil {
		return nil, ErrEntropyFailure.WithCause(err)
	}
	return &SecretKey{params: params, scalar: scalar}, nil
}

// SecretKeyFromBytes restores a secret key from its canonical encoding.
func SecretKeyFromBytes(params *Parameters, data []byte) (*SecretKey, error) {
	scalar, err := params.curve.ScalarFromBytes(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	if scalar.IsZero() {
		return nil, ErrInvalidEncoding.WithDetails("secret key scalar is zero")
	}
	return &SecretKey{params: params, scalar: scalar}, nil
}

// PublicKey derives the matching public key by base-point multiplication.
// Pure and total.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{params: sk.params, point: sk.params.g.Mul(sk.scalar)}
}

// Bytes returns the canonical encoding of the secret scalar. Handle with
// the same care as the key itself.
func (sk *SecretKey) Bytes() []byte {
	return sk.scalar.Bytes()
}

// Zeroize erases the secret scalar.
func (sk *SecretKey) Zeroize() {
	sk.scalar.Zeroize()
}

// PublicKey is a curve point; shareable and immutable.
type PublicKey struct {
	params *Parameters
	point  Point
}

// PublicKeyFromBytes restores a public key from its compressed encoding,
// rejecting encodings that are off-curve or the identity.
func PublicKeyFromBytes(params *Parameters, data []byte) (*PublicKey, error) {
	point, err := params.curve.PointFromBytes(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithCause(err)
	}
	if point.IsIdentity() {
		return nil, ErrInvalidEncoding.WithDetails("public key is the identity point")
	}
	return &PublicKey{params: params, point: point}, nil
}

// Bytes returns the compressed encoding of the public key point.
func (pk *PublicKey) Bytes() []byte {
	return pk.point.Bytes()
}

// Equal reports whether two public keys are the same point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.point.Equal(other.point)
}
