package main

import (
	"fmt"
	"math/bits"
	"strings"
)

// Int256 is a two's-complement 256-bit signed integer stored as four
// little-endian 64-bit limbs: W[0] holds bits 0-63, W[3] holds the
// sign-bearing high bits.
type Int256 struct {
	W [4]uint64
}

// Undef is the all-ones sentinel returned when a label lookup fails.
var Undef = Int256{W: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}

func zero256() Int256 { return Int256{} }

// FromInt64 builds an Int256 from a signed machine int, sign-extending.
func FromInt64(v int64) Int256 {
	var r Int256
	r.W[0] = uint64(v)
	if v < 0 {
		r.W[1], r.W[2], r.W[3] = ^uint64(0), ^uint64(0), ^uint64(0)
	}
	return r
}

// FromUint64 builds an Int256 from an unsigned machine value.
func FromUint64(v uint64) Int256 {
	return Int256{W: [4]uint64{v, 0, 0, 0}}
}

func (a Int256) isZero() bool {
	return a.W[0] == 0 && a.W[1] == 0 && a.W[2] == 0 && a.W[3] == 0
}

func (a Int256) negative() bool {
	return a.W[3]&(1<<63) != 0
}

// Not returns the bitwise complement.
func (a Int256) Not() Int256 {
	return Int256{W: [4]uint64{^a.W[0], ^a.W[1], ^a.W[2], ^a.W[3]}}
}

// Neg returns the two's-complement negation.
func (a Int256) Neg() Int256 {
	return a.Not().Add(FromInt64(1))
}

// Add returns a+b mod 2^256, carry-propagated limb by limb.
func (a Int256) Add(b Int256) Int256 {
	var r Int256
	var carry uint64
	for i := 0; i < 4; i++ {
		sum, c1 := bits.Add64(a.W[i], b.W[i], carry)
		r.W[i] = sum
		carry = c1
	}
	return r
}

// Sub returns a-b.
func (a Int256) Sub(b Int256) Int256 {
	return a.Add(b.Neg())
}

// And, Or, Xor are bitwise operations limb by limb.
func (a Int256) And(b Int256) Int256 {
	return Int256{W: [4]uint64{a.W[0] & b.W[0], a.W[1] & b.W[1], a.W[2] & b.W[2], a.W[3] & b.W[3]}}
}
func (a Int256) Or(b Int256) Int256 {
	return Int256{W: [4]uint64{a.W[0] | b.W[0], a.W[1] | b.W[1], a.W[2] | b.W[2], a.W[3] | b.W[3]}}
}
func (a Int256) Xor(b Int256) Int256 {
	return Int256{W: [4]uint64{a.W[0] ^ b.W[0], a.W[1] ^ b.W[1], a.W[2] ^ b.W[2], a.W[3] ^ b.W[3]}}
}

// Shl is a logical shift left; shifting by >=256 yields zero.
func (a Int256) Shl(n int) Int256 {
	if n <= 0 {
		return a
	}
	if n >= 256 {
		return zero256()
	}
	limbShift := n / 64
	bitShift := uint(n % 64)
	var src [4]uint64
	copy(src[:], a.W[:])
	var r Int256
	for i := 3; i >= 0; i-- {
		srcIdx := i - limbShift
		if srcIdx < 0 {
			continue
		}
		v := src[srcIdx] << bitShift
		if bitShift > 0 && srcIdx-1 >= 0 {
			v |= src[srcIdx-1] >> (64 - bitShift)
		}
		r.W[i] = v
	}
	return r
}

// Shr is a logical shift right (zero-fill).
func (a Int256) Shr(n int) Int256 {
	if n <= 0 {
		return a
	}
	if n >= 256 {
		return zero256()
	}
	limbShift := n / 64
	bitShift := uint(n % 64)
	var r Int256
	for i := 0; i < 4; i++ {
		srcIdx := i + limbShift
		if srcIdx > 3 {
			continue
		}
		v := a.W[srcIdx] >> bitShift
		if bitShift > 0 && srcIdx+1 <= 3 {
			v |= a.W[srcIdx+1] << (64 - bitShift)
		}
		r.W[i] = v
	}
	return r
}

// Sar is an arithmetic shift right; the vacated high bits are filled
// with the sign bit. Shifting by >=256 yields all-zero or all-one
// depending on the sign.
func (a Int256) Sar(n int) Int256 {
	if n <= 0 {
		return a
	}
	fill := uint64(0)
	if a.negative() {
		fill = ^uint64(0)
	}
	if n >= 256 {
		return Int256{W: [4]uint64{fill, fill, fill, fill}}
	}
	r := a.Shr(n)
	// OR in the sign-fill above bit (256-n).
	if a.negative() {
		mask := a.signFillMask(n)
		r = r.Or(mask)
	}
	return r
}

// signFillMask returns a mask with the top n bits set (used by Sar).
func (a Int256) signFillMask(n int) Int256 {
	ones := Int256{W: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}
	return ones.Shl(256 - n)
}

// Cmp performs a signed comparison: -1, 0, or 1.
func (a Int256) Cmp(b Int256) int {
	as, bs := a.negative(), b.negative()
	if as != bs {
		if as {
			return -1
		}
		return 1
	}
	for i := 3; i >= 0; i-- {
		if a.W[i] != b.W[i] {
			if a.W[i] < b.W[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether a == b.
func (a Int256) Equal(b Int256) bool { return a.Cmp(b) == 0 }

func (a Int256) abs() Int256 {
	if a.negative() {
		return a.Neg()
	}
	return a
}

// UMul returns the unsigned product truncated to 256 bits.
func (a Int256) UMul(b Int256) Int256 {
	var full [8]uint64
	for i := 0; i < 4; i++ {
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(a.W[i], b.W[j])
			lo2, c1 := bits.Add64(lo, full[i+j], 0)
			lo3, c2 := bits.Add64(lo2, carry, 0)
			full[i+j] = lo3
			carry = hi + c1 + c2
		}
		full[i+4] += carry
	}
	return Int256{W: [4]uint64{full[0], full[1], full[2], full[3]}}
}

// Pow raises a to the power of exp, an Int256 whose value is masked to
// its low 16 bits per spec §3.
func (a Int256) Pow(exp Int256) Int256 {
	e := uint64(exp.W[0]) & 0xFFFF
	r := FromInt64(1)
	base := a
	for e > 0 {
		if e&1 != 0 {
			r = r.UMul(base)
		}
		base = base.UMul(base)
		e >>= 1
	}
	return r
}

// UDiv performs unsigned division via 256-iteration bit-by-bit
// restoring division: correctness over speed, as called only for
// constant folding.
func (a Int256) UDiv(b Int256) (q, r Int256) {
	if b.isZero() {
		return zero256(), zero256()
	}
	q = zero256()
	r = zero256()
	for i := 255; i >= 0; i-- {
		r = r.Shl(1)
		if a.bitAt(i) {
			r.W[0] |= 1
		}
		if r.Cmp(b) >= 0 {
			r = r.Sub(b)
			q = q.setBit(i)
		}
	}
	return q, r
}

func (a Int256) bitAt(i int) bool {
	limb := i / 64
	bit := uint(i % 64)
	return a.W[limb]&(1<<bit) != 0
}

func (a Int256) setBit(i int) Int256 {
	limb := i / 64
	bit := uint(i % 64)
	r := a
	r.W[limb] |= 1 << bit
	return r
}

// FloorDiv returns the signed, floor-toward-negative-infinity
// quotient, per spec §3/§4.1: Python-style divmod semantics.
func (a Int256) FloorDiv(b Int256) Int256 {
	if b.isZero() {
		return zero256()
	}
	q, r := a.abs().UDiv(b.abs())
	if a.negative() != b.negative() {
		q = q.Neg()
		if !r.isZero() {
			q = q.Sub(FromInt64(1))
		}
	}
	return q
}

// Mod returns the signed modulo with the sign of b, per spec §3.
func (a Int256) Mod(b Int256) Int256 {
	if b.isZero() {
		return zero256()
	}
	q := a.FloorDiv(b)
	return a.Sub(q.UMul(b))
}

// Nbit returns the number of bits needed to represent |x|; Nbit(0)==0.
func (a Int256) Nbit() int {
	m := a.abs()
	if m.isZero() {
		return 0
	}
	for i := 3; i >= 0; i-- {
		if m.W[i] != 0 {
			return i*64 + bits.Len64(m.W[i])
		}
	}
	return 0
}

// SignExtend implements the `x'n` operator: mask to the low n bits,
// then sign-extend from bit n-1.
func (a Int256) SignExtend(n int) Int256 {
	if n <= 0 {
		return zero256()
	}
	if n >= 256 {
		return a
	}
	ones := Int256{W: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}
	mask := ones.Shr(256 - n)
	masked := a.And(mask)
	if masked.bitAt(n - 1) {
		hi := ones.Shl(n)
		masked = masked.Or(hi)
	}
	return masked
}

// boolInt converts a Go bool to an Int256-typed boolean result (1 for
// true, 0 for false), matching the evaluator's comparison/logical
// operators.
func boolInt(b bool) Int256 {
	if b {
		return FromInt64(1)
	}
	return zero256()
}

// String renders the value in decimal, signed.
func (a Int256) String() string {
	if a.isZero() {
		return "0"
	}
	neg := a.negative()
	m := a.abs()
	var digits []byte
	ten := FromInt64(10)
	for !m.isZero() {
		q, r := m.UDiv(ten)
		digits = append(digits, byte('0')+byte(r.W[0]))
		m = q
	}
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// ParseInt256Base parses digits of the given base (2, 8, 10, or 16)
// into an Int256, unsigned.
func ParseInt256Base(digits string, base int) (Int256, error) {
	r := zero256()
	b := FromInt64(int64(base))
	if digits == "" {
		return r, fmt.Errorf("empty integer literal")
	}
	for _, c := range digits {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return r, fmt.Errorf("invalid digit %q in base-%d literal", c, base)
		}
		if d >= int64(base) {
			return r, fmt.Errorf("digit %q out of range for base-%d literal", c, base)
		}
		r = r.UMul(b).Add(FromInt64(d))
	}
	return r, nil
}

// Low64 returns the low 64 bits, for use as an array index/count/etc.
func (a Int256) Low64() uint64 { return a.W[0] }

// Int64 returns the low 64 bits reinterpreted as signed.
func (a Int256) Int64() int64 { return int64(a.W[0]) }

// Bytes returns the value as n little-endian or big-endian bytes,
// masked to the low n*8 bits (used by the output writer / VLIW packer).
func (a Int256) Bytes(n int, bigEndian bool) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		limb := i / 8
		shift := uint((i % 8) * 8)
		var b byte
		if limb < 4 {
			b = byte(a.W[limb] >> shift)
		}
		if bigEndian {
			out[n-1-i] = b
		} else {
			out[i] = b
		}
	}
	return out
}
