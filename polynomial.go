package umbral

// polynomial is a polynomial over the scalar field, held as an explicit
// coefficient vector with the constant term first.
type polynomial struct {
	curve        Curve
	coefficients []Scalar
}

// newRandomPolynomial creates a polynomial of the given degree with the
// supplied constant term and uniformly random higher coefficients.
func newRandomPolynomial(curve Curve, degree int, constantTerm Scalar) (*polynomial, error) {
	coefficients := make([]Scalar, degree+1)
	coefficients[0] = constantTerm
	for i := 1; i <= degree; i++ {
		coeff, err := curve.ScalarRandom()
		if err != nil {
			return nil, ErrEntropyFailure.WithCause(err)
		}
		coefficients[i] = coeff
	}
	return &polynomial{curve: curve, coefficients: coefficients}, nil
}

// evaluate computes f(x) by Horner's method. The result never aliases a
// coefficient, so it survives a later zeroize of the polynomial.
func (p *polynomial) evaluate(x Scalar) Scalar {
	result := p.curve.ScalarZero().Add(p.coefficients[len(p.coefficients)-1])
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// degree returns the degree of the polynomial.
func (p *polynomial) degree() int {
	return len(p.coefficients) - 1
}

// zeroize erases every coefficient; the secret being shared lives in the
// constant term, so the whole vector is sensitive.
func (p *polynomial) zeroize() {
	for i, coeff := range p.coefficients {
		if coeff != nil {
			coeff.Zeroize()
		}
		p.coefficients[i] = nil
	}
	p.coefficients = nil
}
