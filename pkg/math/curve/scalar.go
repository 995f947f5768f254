package curve

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// scalar is the Secp256k1 implementation of Scalar, backed directly by
// decred's constant-time ModNScalar.
type scalar struct {
	value secp256k1.ModNScalar
}

var _ Scalar = (*scalar)(nil)

func (s *scalar) Add(other Scalar) Scalar {
	o := other.(*scalar)
	s.value.Add(&o.value)
	return s
}

func (s *scalar) Sub(other Scalar) Scalar {
	o := other.(*scalar)
	var neg secp256k1.ModNScalar
	neg.Set(&o.value)
	neg.Negate()
	s.value.Add(&neg)
	return s
}

func (s *scalar) Mul(other Scalar) Scalar {
	o := other.(*scalar)
	s.value.Mul(&o.value)
	return s
}

func (s *scalar) Negate() Scalar {
	s.value.Negate()
	return s
}

func (s *scalar) Invert() Scalar {
	if s.value.IsZero() {
		panic("curve: cannot invert the zero scalar")
	}
	s.value.InverseNonConst()
	return s
}

func (s *scalar) Set(other Scalar) Scalar {
	o := other.(*scalar)
	s.value.Set(&o.value)
	return s
}

func (s *scalar) Clone() Scalar {
	var c scalar
	c.value.Set(&s.value)
	return &c
}

func (s *scalar) Equal(other Scalar) bool {
	o := other.(*scalar)
	return s.value.Equals(&o.value)
}

func (s *scalar) IsZero() bool {
	return s.value.IsZero()
}

func (s *scalar) SetNat(n *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(n, order)
	var buf [ScalarSize]byte
	reduced.Big().FillBytes(buf[:])
	s.value.SetByteSlice(buf[:])
	return s
}

func (s *scalar) Act(other Point) Point {
	o := other.(*point)
	result := &point{}
	secp256k1.ScalarMultNonConst(&s.value, &o.value, &result.value)
	return result
}

func (s *scalar) ActOnBase() Point {
	result := &point{}
	secp256k1.ScalarBaseMultNonConst(&s.value, &result.value)
	return result
}

func (s *scalar) MarshalBinary() ([]byte, error) {
	b := s.value.Bytes()
	out := make([]byte, ScalarSize)
	copy(out, b[:])
	return out, nil
}

func (s *scalar) UnmarshalBinary(data []byte) error {
	if len(data) != ScalarSize {
		return fmt.Errorf("curve: scalar must be %d bytes, got %d", ScalarSize, len(data))
	}
	overflow := s.value.SetByteSlice(data)
	if overflow {
		return fmt.Errorf("curve: scalar encoding is not reduced modulo the group order")
	}
	return nil
}
