package umbral

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Curve abstracts the elliptic-curve group all scheme operations run over.
// Implementations must be safe for concurrent use; every method returns
// fresh values and never mutates its receiver or arguments.
type Curve interface {
	Name() string
	ScalarSize() int
	PointSize() int

	ScalarFromBytes([]byte) (Scalar, error)
	ScalarFromUniformBytes([]byte) (Scalar, error)
	ScalarRandom() (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar

	PointFromBytes([]byte) (Point, error)
	BasePoint() Point
	PointIdentity() Point

	// MapToCurve turns one candidate digest into a group element in the
	// prime-order subgroup, or fails so the caller can re-hash and retry.
	MapToCurve(digest []byte) (Point, error)
}

// Scalar is an element of the curve's scalar field.
type Scalar interface {
	Bytes() []byte

	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() (Scalar, error)

	Equal(Scalar) bool
	IsZero() bool

	// Zeroize erases the scalar's backing storage. The value must not be
	// used afterwards.
	Zeroize()
}

// Point is a group element.
type Point interface {
	Bytes() []byte

	Add(Point) Point
	Sub(Point) Point
	Mul(Scalar) Point
	Negate() Point

	Equal(Point) bool
	IsIdentity() bool
}

// CurveType selects one of the supported curve implementations.
type CurveType string

const (
	Secp256k1 CurveType = "secp256k1"
	Ed25519   CurveType = "ed25519"
)

// NewCurve creates a curve instance for the given type.
func NewCurve(curveType CurveType) (Curve, error) {
	switch curveType {
	case Secp256k1:
		return NewSecp256k1Curve(), nil
	case Ed25519:
		return NewEd25519Curve(), nil
	default:
		return nil, fmt.Errorf("unsupported curve type: %s", curveType)
	}
}

// Curve-level errors.
var (
	ErrInvalidScalarLength = errors.New("invalid scalar length")
	ErrInvalidPointLength  = errors.New("invalid point length")
	ErrInvalidScalar       = errors.New("invalid scalar value")
	ErrInvalidPoint        = errors.New("invalid point")
	ErrScalarZero          = errors.New("scalar is zero")
	ErrPointNotMapped      = errors.New("digest does not map to a curve point")
)

// SecureRandom generates cryptographically secure random bytes.
func SecureRandom(size int) ([]byte, error) {
	bytes := make([]byte, size)
	_, err := rand.Read(bytes)
	return bytes, err
}
