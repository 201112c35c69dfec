package umbral

// Fixed-width byte encodings for every shareable artifact. Layouts
// concatenate compressed points and canonical scalars; widths are fixed by
// the curve, so no framing is needed. Parsing validates every component,
// so a decoded artifact is always well formed (though not yet verified).

// byteReader walks a fixed-layout buffer, decoding curve elements.
type byteReader struct {
	curve Curve
	data  []byte
	err   error
}

func newByteReader(curve Curve, data []byte) *byteReader {
	return &byteReader{curve: curve, data: data}
}

func (r *byteReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.data) < n {
		r.err = ErrInvalidEncoding.WithDetails("input truncated")
		return nil
	}
	chunk := r.data[:n]
	r.data = r.data[n:]
	return chunk
}

func (r *byteReader) point() Point {
	chunk := r.take(r.curve.PointSize())
	if r.err != nil {
		return nil
	}
	point, err := r.curve.PointFromBytes(chunk)
	if err != nil {
		r.err = ErrInvalidEncoding.WithCause(err)
		return nil
	}
	return point
}

func (r *byteReader) scalar() Scalar {
	chunk := r.take(r.curve.ScalarSize())
	if r.err != nil {
		return nil
	}
	scalar, err := r.curve.ScalarFromBytes(chunk)
	if err != nil {
		r.err = ErrInvalidEncoding.WithCause(err)
		return nil
	}
	return scalar
}

func (r *byteReader) byte() byte {
	chunk := r.take(1)
	if r.err != nil {
		return 0
	}
	return chunk[0]
}

func (r *byteReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) != 0 {
		return ErrInvalidEncoding.WithDetails("%d trailing bytes", len(r.data))
	}
	return nil
}

// Bytes encodes the capsule as E || V || s.
func (c *Capsule) Bytes() []byte {
	out := make([]byte, 0, 2*c.params.curve.PointSize()+c.params.curve.ScalarSize())
	out = append(out, c.e.Bytes()...)
	out = append(out, c.v.Bytes()...)
	out = append(out, c.s.Bytes()...)
	return out
}

// CapsuleFromBytes decodes a capsule and checks its consistency equation.
func CapsuleFromBytes(params *Parameters, data []byte) (*Capsule, error) {
	r := newByteReader(params.curve, data)
	e := r.point()
	v := r.point()
	s := r.scalar()
	if err := r.finish(); err != nil {
		return nil, err
	}
	capsule := &Capsule{params: params, e: e, v: v, s: s}
	if !capsule.Verify() {
		return nil, ErrInvalidEncoding.WithDetails("capsule consistency check failed")
	}
	return capsule, nil
}

// Bytes encodes the key fragment as
// id || key || precursor || commitment || signature || flags.
func (k *KFrag) Bytes() []byte {
	out := make([]byte, 0, 4*k.params.curve.ScalarSize()+2*k.params.curve.PointSize()+1)
	out = append(out, k.id.Bytes()...)
	out = append(out, k.key.Bytes()...)
	out = append(out, k.precursor.Bytes()...)
	out = append(out, k.commitment.Bytes()...)
	out = append(out, k.signature.Bytes()...)
	out = append(out, kfragFlagByte(k.signDelegating, k.signReceiving))
	return out
}

// KFragFromBytes decodes a key fragment.
func KFragFromBytes(params *Parameters, data []byte) (*KFrag, error) {
	r := newByteReader(params.curve, data)
	id := r.scalar()
	key := r.scalar()
	precursor := r.point()
	commitment := r.point()
	challenge := r.scalar()
	response := r.scalar()
	flags := r.byte()
	if err := r.finish(); err != nil {
		return nil, err
	}
	if flags&^0x03 != 0 {
		return nil, ErrInvalidEncoding.WithDetails("unknown flag bits 0x%02x", flags)
	}
	return &KFrag{
		params:         params,
		id:             id,
		key:            key,
		precursor:      precursor,
		commitment:     commitment,
		signature:      &Signature{challenge: challenge, response: response},
		signDelegating: flags&0x01 != 0,
		signReceiving:  flags&0x02 != 0,
	}, nil
}

// Bytes encodes the capsule fragment as
// E1 || V1 || id || precursor || E2 || V2 || commitment || pok ||
// proof signature || kfrag signature || metadata || flags.
func (cf *CapsuleFrag) Bytes() []byte {
	curve := cf.params.curve
	out := make([]byte, 0, 7*curve.PointSize()+5*curve.ScalarSize()+1)
	out = append(out, cf.e1.Bytes()...)
	out = append(out, cf.v1.Bytes()...)
	out = append(out, cf.id.Bytes()...)
	out = append(out, cf.precursor.Bytes()...)
	out = append(out, cf.proof.e2.Bytes()...)
	out = append(out, cf.proof.v2.Bytes()...)
	out = append(out, cf.proof.commitment.Bytes()...)
	out = append(out, cf.proof.pok.Bytes()...)
	out = append(out, cf.proof.signature.Bytes()...)
	out = append(out, cf.proof.kfragSignature.Bytes()...)
	out = append(out, cf.proof.metadata.Bytes()...)
	out = append(out, kfragFlagByte(cf.signDelegating, cf.signReceiving))
	return out
}

// CapsuleFragFromBytes decodes a capsule fragment.
func CapsuleFragFromBytes(params *Parameters, data []byte) (*CapsuleFrag, error) {
	r := newByteReader(params.curve, data)
	e1 := r.point()
	v1 := r.point()
	id := r.scalar()
	precursor := r.point()
	e2 := r.point()
	v2 := r.point()
	commitment := r.point()
	pok := r.point()
	signature := r.scalar()
	kfragChallenge := r.scalar()
	kfragResponse := r.scalar()
	metadata := r.scalar()
	flags := r.byte()
	if err := r.finish(); err != nil {
		return nil, err
	}
	if flags&^0x03 != 0 {
		return nil, ErrInvalidEncoding.WithDetails("unknown flag bits 0x%02x", flags)
	}
	return &CapsuleFrag{
		params:    params,
		e1:        e1,
		v1:        v1,
		id:        id,
		precursor: precursor,
		proof: &capsuleFragProof{
			e2:             e2,
			v2:             v2,
			commitment:     commitment,
			pok:            pok,
			signature:      signature,
			kfragSignature: &Signature{challenge: kfragChallenge, response: kfragResponse},
			metadata:       metadata,
		},
		signDelegating: flags&0x01 != 0,
		signReceiving:  flags&0x02 != 0,
	}, nil
}
