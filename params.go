package umbral

// Parameters fixes the group every key, capsule and fragment lives in: the
// curve, its base point G and a second generator U with unknown discrete
// log relative to G. Parameters are created once and never mutated; all
// artifacts combined in one operation must share equal parameters.
type Parameters struct {
	curve Curve
	g     Point
	u     Point
}

// NewParameters creates the group parameters for the given curve type. The
// point U is derived deterministically from the base point, so two
// deployments on the same curve always agree on it.
func NewParameters(curveType CurveType) (*Parameters, error) {
	curve, err := NewCurve(curveType)
	if err != nil {
		return nil, err
	}
	g := curve.BasePoint()
	u, err := unsafeHashToPoint(curve, g.Bytes(), []byte(hashToPointLabel))
	if err != nil {
		return nil, err
	}
	return &Parameters{curve: curve, g: g, u: u}, nil
}

// Curve returns the underlying curve.
func (p *Parameters) Curve() Curve {
	return p.curve
}

// Equal reports whether two parameter sets describe the same group.
func (p *Parameters) Equal(other *Parameters) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	return p.curve.Name() == other.curve.Name() && p.u.Equal(other.u)
}
