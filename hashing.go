package umbral

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Domain-separation tags for every hash-to-scalar use. Each protocol
// context gets its own tag so transcripts can never collide across uses.
const (
	dstCapsule        = "capsule"
	dstNonInteractive = "non-interactive"
	dstShareIndex     = "share-index"
	dstProof          = "cfrag-proof"
	dstMetadata       = "metadata"
	dstSignature      = "signature"
)

// hashToPointLabel derives the parameter point U from the base point.
const hashToPointLabel = "umbral/parameters/u"

// hashToScalar hashes a transcript of curve points plus optional byte
// strings into a uniformly distributed scalar. Byte strings are
// length-prefixed to keep the transcript unambiguous.
func hashToScalar(curve Curve, dst string, points []Point, extra ...[]byte) Scalar {
	hasher := sha3.New256()
	hasher.Write([]byte("umbral-hash-to-scalar"))
	hasher.Write([]byte(curve.Name()))
	hasher.Write([]byte(dst))
	for _, p := range points {
		hasher.Write(p.Bytes())
	}
	for _, data := range extra {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(data)))
		hasher.Write(length[:])
		hasher.Write(data)
	}
	// Only fails on short input; a SHA3-256 digest is always long enough.
	scalar, _ := curve.ScalarFromUniformBytes(hasher.Sum(nil))
	return scalar
}

// unsafeHashToPoint hashes arbitrary data to a group element with the
// try-and-increment method over BLAKE2b digests. Not constant time, so it
// must only ever see public inputs (it is used once, to derive the public
// parameter U).
func unsafeHashToPoint(curve Curve, data, label []byte) (Point, error) {
	prefix := make([]byte, 0, 8+len(label)+len(data))
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(label)))
	prefix = append(prefix, length[:]...)
	prefix = append(prefix, label...)
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	prefix = append(prefix, length[:]...)
	prefix = append(prefix, data...)

	var counter [4]byte
	for i := uint32(0); i < ^uint32(0); i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		digest := blake2b.Sum512(append(prefix, counter[:]...))
		point, err := curve.MapToCurve(digest[:])
		if err == nil {
			return point, nil
		}
	}
	// Reachable only with probability ~2^-32 per attempt, 2^32 attempts.
	return nil, ErrPointNotMapped
}
