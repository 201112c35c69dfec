package umbral

import (
	"crypto/rand"

	"filippo.io/edwards25519"
)

// Ed25519Curve implements Curve over filippo.io/edwards25519.
type Ed25519Curve struct{}

// NewEd25519Curve creates a new ed25519 curve instance.
func NewEd25519Curve() *Ed25519Curve {
	return &Ed25519Curve{}
}

func (c *Ed25519Curve) Name() string    { return "ed25519" }
func (c *Ed25519Curve) ScalarSize() int { return 32 }
func (c *Ed25519Curve) PointSize() int  { return 32 }

func (c *Ed25519Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(data)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return &edScalar{inner: s}, nil
}

func (c *Ed25519Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 {
		return nil, ErrInvalidScalarLength
	}
	uniform := make([]byte, 64)
	copy(uniform, data)
	s, err := edwards25519.NewScalar().SetUniformBytes(uniform)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return &edScalar{inner: s}, nil
}

func (c *Ed25519Curve) ScalarRandom() (Scalar, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf)
	if err != nil {
		return nil, err
	}
	return &edScalar{inner: s}, nil
}

func (c *Ed25519Curve) ScalarZero() Scalar {
	return &edScalar{inner: edwards25519.NewScalar()}
}

func (c *Ed25519Curve) ScalarOne() Scalar {
	one := make([]byte, 32)
	one[0] = 1
	s, _ := edwards25519.NewScalar().SetCanonicalBytes(one)
	return &edScalar{inner: s}
}

func (c *Ed25519Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 32 {
		return nil, ErrInvalidPointLength
	}
	p, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return &edPoint{inner: p}, nil
}

func (c *Ed25519Curve) BasePoint() Point {
	return &edPoint{inner: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) PointIdentity() Point {
	return &edPoint{inner: edwards25519.NewIdentityPoint()}
}

// MapToCurve decodes the first 32 digest bytes as a candidate point
// encoding and clears the cofactor so the result lands in the prime-order
// subgroup. Candidates that decode to small-order points are rejected.
func (c *Ed25519Curve) MapToCurve(digest []byte) (Point, error) {
	if len(digest) < 32 {
		return nil, ErrInvalidPointLength
	}
	p, err := new(edwards25519.Point).SetBytes(digest[:32])
	if err != nil {
		return nil, ErrPointNotMapped
	}
	p.MultByCofactor(p)
	if p.Equal(edwards25519.NewIdentityPoint()) == 1 {
		return nil, ErrPointNotMapped
	}
	return &edPoint{inner: p}, nil
}

// edScalar implements Scalar.
type edScalar struct {
	inner *edwards25519.Scalar
}

func (s *edScalar) Bytes() []byte {
	return s.inner.Bytes()
}

func (s *edScalar) Add(other Scalar) Scalar {
	return &edScalar{inner: edwards25519.NewScalar().Add(s.inner, other.(*edScalar).inner)}
}

func (s *edScalar) Sub(other Scalar) Scalar {
	return &edScalar{inner: edwards25519.NewScalar().Subtract(s.inner, other.(*edScalar).inner)}
}

func (s *edScalar) Mul(other Scalar) Scalar {
	return &edScalar{inner: edwards25519.NewScalar().Multiply(s.inner, other.(*edScalar).inner)}
}

func (s *edScalar) Negate() Scalar {
	return &edScalar{inner: edwards25519.NewScalar().Negate(s.inner)}
}

func (s *edScalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	return &edScalar{inner: edwards25519.NewScalar().Invert(s.inner)}, nil
}

func (s *edScalar) Equal(other Scalar) bool {
	return s.inner.Equal(other.(*edScalar).inner) == 1
}

func (s *edScalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

func (s *edScalar) Zeroize() {
	s.inner = edwards25519.NewScalar()
}

// edPoint implements Point.
type edPoint struct {
	inner *edwards25519.Point
}

func (p *edPoint) Bytes() []byte {
	return p.inner.Bytes()
}

func (p *edPoint) Add(other Point) Point {
	return &edPoint{inner: edwards25519.NewIdentityPoint().Add(p.inner, other.(*edPoint).inner)}
}

func (p *edPoint) Sub(other Point) Point {
	return &edPoint{inner: edwards25519.NewIdentityPoint().Subtract(p.inner, other.(*edPoint).inner)}
}

func (p *edPoint) Mul(scalar Scalar) Point {
	result := edwards25519.NewIdentityPoint()
	result.ScalarMult(scalar.(*edScalar).inner, p.inner)
	return &edPoint{inner: result}
}

func (p *edPoint) Negate() Point {
	return &edPoint{inner: edwards25519.NewIdentityPoint().Negate(p.inner)}
}

func (p *edPoint) Equal(other Point) bool {
	return p.inner.Equal(other.(*edPoint).inner) == 1
}

func (p *edPoint) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}
