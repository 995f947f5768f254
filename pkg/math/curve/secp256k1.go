package curve

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// orderBytes is the big-endian encoding of the secp256k1 group order q:
//
//	FFFFFFFF FFFFFFFF FFFFFFFF FFFFFFFE BAAEDCE6 AF48A03B BFD25E8C D0364141
var orderBytes = [32]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
	0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
}

var order = saferith.ModulusFromBytes(orderBytes[:])

// Secp256k1 is the Curve implementation used throughout this module.
type Secp256k1 struct{}

var _ Curve = Secp256k1{}

func (Secp256k1) NewScalar() Scalar { return &scalar{} }

func (Secp256k1) NewPoint() Point { return &point{} }

func (Secp256k1) Generator() Point {
	one := new(secp256k1.ModNScalar).SetInt(1)
	p := &point{}
	secp256k1.ScalarBaseMultNonConst(one, &p.value)
	return p
}

func (Secp256k1) Order() *saferith.Modulus { return order }

func (Secp256k1) Name() string { return "secp256k1" }

// ScalarFromWideBytes reduces an arbitrary-length big-endian buffer modulo
// the group order using saferith's wide-precision Nat arithmetic, instead
// of truncating to the low 256 bits. See DESIGN.md, "hash_to_scalar
// reduction", for why this module prefers a wide reduction over the
// spec's literal 256-bit-digest construction.
func (Secp256k1) ScalarFromWideBytes(data []byte) Scalar {
	wide := new(saferith.Nat).SetBytes(data)
	reduced := new(saferith.Nat).Mod(wide, order)
	return (&scalar{}).SetNat(reduced)
}

// RandomScalar samples a uniformly random nonzero scalar using the given
// entropy source (typically crypto/rand.Reader).
func RandomScalar(rnd io.Reader, group Curve) (Scalar, error) {
	var buf [ScalarSize]byte
	for i := 0; i < 256; i++ {
		if _, err := io.ReadFull(rnd, buf[:]); err != nil {
			return nil, fmt.Errorf("curve: reading randomness: %w", err)
		}
		s := group.NewScalar()
		if err := s.UnmarshalBinary(buf[:]); err != nil {
			continue
		}
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, errors.New("curve: failed to sample a nonzero scalar")
}

// MustRandomScalar is RandomScalar using crypto/rand, panicking only if the
// system entropy source itself fails.
func MustRandomScalar(group Curve) Scalar {
	s, err := RandomScalar(rand.Reader, group)
	if err != nil {
		panic(err)
	}
	return s
}
