package umbral

// Capsule is the public encapsulation of a symmetric key: two curve points
// E, V and a scalar s satisfying g*s == V + E*H(E,V). It is immutable,
// shareable, and re-encryptable without ever being decrypted.
type Capsule struct {
	params *Parameters
	e      Point
	v      Point
	s      Scalar
}

// Verify checks the capsule's public consistency equation. It needs no
// secrets and is safe to run repeatedly and concurrently.
func (c *Capsule) Verify() bool {
	h := hashToScalar(c.params.curve, dstCapsule, []Point{c.e, c.v})
	lhs := c.params.g.Mul(c.s)
	rhs := c.v.Add(c.e.Mul(h))
	return lhs.Equal(rhs)
}

// encapsulate generates a fresh capsule addressed to the given public key
// together with the shared-point key seed. Both ephemerals are unique per
// call and erased before returning.
func encapsulate(params *Parameters, pk *PublicKey) (*Capsule, []byte, error) {
	privR, err := params.curve.ScalarRandom()
	if err != nil {
		return nil, nil, ErrEntropyFailure.WithCause(err)
	}
	defer privR.Zeroize()
	privU, err := params.curve.ScalarRandom()
	if err != nil {
		return nil, nil, ErrEntropyFailure.WithCause(err)
	}
	defer privU.Zeroize()

	pubR := params.g.Mul(privR)
	pubU := params.g.Mul(privU)

	h := hashToScalar(params.curve, dstCapsule, []Point{pubR, pubU})
	s := privU.Add(privR.Mul(h))

	sharedPoint := pk.point.Mul(privR.Add(privU))
	keySeed := sharedPoint.Bytes()

	capsule := &Capsule{params: params, e: pubR, v: pubU, s: s}
	return capsule, keySeed, nil
}

// openOriginal recovers the key seed with the recipient's secret key:
// sk*(E+V) equals the encapsulation's (r+u)*pk.
func (c *Capsule) openOriginal(sk *SecretKey) []byte {
	sharedPoint := c.e.Add(c.v).Mul(sk.scalar)
	return sharedPoint.Bytes()
}

// openReencrypted reconstructs the key seed from a deduplicated set of
// capsule fragments via Lagrange interpolation in the exponent. The set
// must reach the delegation's threshold; since the threshold is not
// carried by the fragments, insufficiency surfaces as a failed
// reconstruction check.
func (c *Capsule) openReencrypted(sk *SecretKey, delegating *PublicKey, cfrags []*CapsuleFrag) ([]byte, error) {
	curve := c.params.curve

	precursor := cfrags[0].precursor
	for _, cfrag := range cfrags[1:] {
		if !precursor.Equal(cfrag.precursor) {
			return nil, ErrFragmentMismatch
		}
	}

	publicPoint := c.params.g.Mul(sk.scalar)
	dhPoint := precursor.Mul(sk.scalar)
	transcript := []Point{precursor, publicPoint, dhPoint}

	// Recompute each fragment's interpolation node from its id; the same
	// derivation fixed the share when the delegation was generated.
	nodes := make([]Scalar, len(cfrags))
	for i, cfrag := range cfrags {
		nodes[i] = hashToScalar(curve, dstShareIndex, transcript, cfrag.id.Bytes())
	}
	lambdas, err := lagrangeAtZero(curve, nodes)
	if err != nil {
		return nil, ErrInsufficientFragments.WithCause(err)
	}

	ePrime := curve.PointIdentity()
	vPrime := curve.PointIdentity()
	for i, cfrag := range cfrags {
		ePrime = ePrime.Add(cfrag.e1.Mul(lambdas[i]))
		vPrime = vPrime.Add(cfrag.v1.Mul(lambdas[i]))
	}

	d := hashToScalar(curve, dstNonInteractive, transcript)
	dInv, err := d.Invert()
	if err != nil {
		return nil, ErrInsufficientFragments.WithCause(err)
	}

	// Public reconstruction check: A*(s/d) == E'*h + V'. It fails for any
	// sub-threshold or inconsistent fragment subset.
	h := hashToScalar(curve, dstCapsule, []Point{c.e, c.v})
	lhs := delegating.point.Mul(c.s.Mul(dInv))
	rhs := ePrime.Mul(h).Add(vPrime)
	if !lhs.Equal(rhs) {
		return nil, ErrInsufficientFragments
	}

	sharedPoint := ePrime.Add(vPrime).Mul(d)
	return sharedPoint.Bytes(), nil
}

// lagrangeAtZero computes the Lagrange coefficients at x=0 for the given
// pairwise-distinct interpolation nodes.
func lagrangeAtZero(curve Curve, nodes []Scalar) ([]Scalar, error) {
	denominators := make([]Scalar, len(nodes))
	numerators := make([]Scalar, len(nodes))
	for i, node := range nodes {
		numerator := curve.ScalarOne()
		denominator := curve.ScalarOne()
		for j, other := range nodes {
			if i == j {
				continue
			}
			numerator = numerator.Mul(other)
			denominator = denominator.Mul(other.Sub(node))
		}
		numerators[i] = numerator
		denominators[i] = denominator
	}
	inverses, err := batchInvert(curve, denominators)
	if err != nil {
		return nil, err
	}
	coefficients := make([]Scalar, len(nodes))
	for i := range nodes {
		coefficients[i] = numerators[i].Mul(inverses[i])
	}
	return coefficients, nil
}
