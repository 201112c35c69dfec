package umbral

// ZeroizeBytes securely clears a byte slice.
func ZeroizeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}

// ZeroizeScalars securely clears a slice of scalars.
func ZeroizeScalars(scalars []Scalar) {
	for _, scalar := range scalars {
		if scalar != nil {
			scalar.Zeroize()
		}
	}
}

// batchInvert inverts every scalar with Montgomery's trick: one field
// inversion plus 3(n-1) multiplications. Fails if any input is zero.
func batchInvert(curve Curve, scalars []Scalar) ([]Scalar, error) {
	n := len(scalars)
	if n == 0 {
		return nil, nil
	}
	for _, scalar := range scalars {
		if scalar.IsZero() {
			return nil, ErrScalarZero
		}
	}
	if n == 1 {
		inv, err := scalars[0].Invert()
		if err != nil {
			return nil, err
		}
		return []Scalar{inv}, nil
	}

	partials := make([]Scalar, n)
	partials[0] = scalars[0]
	for i := 1; i < n; i++ {
		partials[i] = partials[i-1].Mul(scalars[i])
	}

	allInv, err := partials[n-1].Invert()
	if err != nil {
		return nil, err
	}

	inverses := make([]Scalar, n)
	for i := n - 1; i > 0; i-- {
		inverses[i] = allInv.Mul(partials[i-1])
		allInv = allInv.Mul(scalars[i])
	}
	inverses[0] = allInv

	return inverses, nil
}
