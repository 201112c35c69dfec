package umbral

import (
	"crypto/rand"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Secp256k1Curve implements Curve over btcec's secp256k1 arithmetic.
type Secp256k1Curve struct{}

// NewSecp256k1Curve creates a new secp256k1 curve instance.
func NewSecp256k1Curve() *Secp256k1Curve {
	return &Secp256k1Curve{}
}

func (c *Secp256k1Curve) Name() string    { return "secp256k1" }
func (c *Secp256k1Curve) ScalarSize() int { return 32 }
func (c *Secp256k1Curve) PointSize() int  { return 33 } // compressed

func (c *Secp256k1Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}
	s := new(btcec.ModNScalar)
	if overflow := s.SetBytes((*[32]byte)(data)); overflow != 0 {
		return nil, ErrInvalidScalar
	}
	return &secpScalar{inner: s}, nil
}

func (c *Secp256k1Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 {
		return nil, ErrInvalidScalarLength
	}
	// Reduction of a 32-byte digest mod n. The bias is negligible since n
	// is close to 2^256.
	s := new(btcec.ModNScalar)
	s.SetBytes((*[32]byte)(data[:32]))
	return &secpScalar{inner: s}, nil
}

func (c *Secp256k1Curve) ScalarRandom() (Scalar, error) {
	for {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, err
		}
		s := new(btcec.ModNScalar)
		if overflow := s.SetBytes(&buf); overflow == 0 && !s.IsZero() {
			return &secpScalar{inner: s}, nil
		}
		// Out of range, draw again.
	}
}

func (c *Secp256k1Curve) ScalarZero() Scalar {
	return &secpScalar{inner: new(btcec.ModNScalar)}
}

func (c *Secp256k1Curve) ScalarOne() Scalar {
	s := new(btcec.ModNScalar)
	s.SetInt(1)
	return &secpScalar{inner: s}
}

func (c *Secp256k1Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 33 && len(data) != 65 {
		return nil, ErrInvalidPointLength
	}
	pub, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return &secpPoint{inner: pub}, nil
}

func (c *Secp256k1Curve) BasePoint() Point {
	return &secpPoint{inner: btcec.Generator()}
}

func (c *Secp256k1Curve) PointIdentity() Point {
	return &secpPoint{inner: nil}
}

// MapToCurve interprets the digest as a candidate compressed encoding:
// the parity bit comes from digest[0], the x coordinate from the next 32
// bytes. Roughly half of all candidates decode; callers retry with a fresh
// digest otherwise. The cofactor is 1 so no clearing is needed.
func (c *Secp256k1Curve) MapToCurve(digest []byte) (Point, error) {
	if len(digest) < 33 {
		return nil, ErrInvalidPointLength
	}
	candidate := make([]byte, 33)
	if digest[0]&1 == 0 {
		candidate[0] = 0x02
	} else {
		candidate[0] = 0x03
	}
	copy(candidate[1:], digest[1:33])
	pub, err := btcec.ParsePubKey(candidate)
	if err != nil {
		return nil, ErrPointNotMapped
	}
	return &secpPoint{inner: pub}, nil
}

// secpScalar implements Scalar.
type secpScalar struct {
	inner *btcec.ModNScalar
}

func (s *secpScalar) Bytes() []byte {
	var buf [32]byte
	s.inner.PutBytes(&buf)
	return buf[:]
}

func (s *secpScalar) Add(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(other.(*secpScalar).inner)
	return &secpScalar{inner: result}
}

func (s *secpScalar) Sub(other Scalar) Scalar {
	neg := new(btcec.ModNScalar)
	neg.Set(other.(*secpScalar).inner).Negate()
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(neg)
	return &secpScalar{inner: result}
}

func (s *secpScalar) Mul(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Set(s.inner).Mul(other.(*secpScalar).inner)
	return &secpScalar{inner: result}
}

func (s *secpScalar) Negate() Scalar {
	result := new(btcec.ModNScalar)
	result.Set(s.inner).Negate()
	return &secpScalar{inner: result}
}

func (s *secpScalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	result := new(btcec.ModNScalar)
	result.Set(s.inner).InverseNonConst()
	return &secpScalar{inner: result}, nil
}

func (s *secpScalar) Equal(other Scalar) bool {
	return s.inner.Equals(other.(*secpScalar).inner)
}

func (s *secpScalar) IsZero() bool {
	return s.inner.IsZero()
}

func (s *secpScalar) Zeroize() {
	s.inner.Zero()
}

// secpPoint implements Point. A nil inner key is the point at infinity.
type secpPoint struct {
	inner *btcec.PublicKey
}

func (p *secpPoint) Bytes() []byte {
	if p.inner == nil {
		return make([]byte, 33)
	}
	return p.inner.SerializeCompressed()
}

func (p *secpPoint) Add(other Point) Point {
	o := other.(*secpPoint)
	if p.inner == nil {
		return o
	}
	if o.inner == nil {
		return p
	}
	var a, b btcec.JacobianPoint
	p.inner.AsJacobian(&a)
	o.inner.AsJacobian(&b)
	btcec.AddNonConst(&a, &b, &a)
	if a.Z.IsZero() {
		return &secpPoint{inner: nil}
	}
	a.ToAffine()
	return &secpPoint{inner: btcec.NewPublicKey(&a.X, &a.Y)}
}

func (p *secpPoint) Sub(other Point) Point {
	return p.Add(other.Negate())
}

func (p *secpPoint) Mul(scalar Scalar) Point {
	if p.inner == nil {
		return p
	}
	k := scalar.(*secpScalar).inner
	if k.IsZero() {
		return &secpPoint{inner: nil}
	}
	var pt, result btcec.JacobianPoint
	p.inner.AsJacobian(&pt)
	btcec.ScalarMultNonConst(k, &pt, &result)
	if result.Z.IsZero() {
		return &secpPoint{inner: nil}
	}
	result.ToAffine()
	return &secpPoint{inner: btcec.NewPublicKey(&result.X, &result.Y)}
}

func (p *secpPoint) Negate() Point {
	if p.inner == nil {
		return p
	}
	var jac btcec.JacobianPoint
	p.inner.AsJacobian(&jac)
	jac.Y.Negate(1)
	jac.ToAffine()
	return &secpPoint{inner: btcec.NewPublicKey(&jac.X, &jac.Y)}
}

func (p *secpPoint) Equal(other Point) bool {
	o := other.(*secpPoint)
	if p.inner == nil || o.inner == nil {
		return p.inner == nil && o.inner == nil
	}
	return p.inner.IsEqual(o.inner)
}

func (p *secpPoint) IsIdentity() bool {
	return p.inner == nil
}
