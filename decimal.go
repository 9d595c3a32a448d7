package main

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// decimalEvaluator is the "external" decimal-expression evaluator that
// flt{}/dbl{}/qad{} delegate to per spec §4.3a/§9: a pure function from
// a decimal-flavored expression string to a float value, with :label
// references resolved through a callback. Modeled here as a small
// self-contained recursive-descent evaluator over +,-,*,/ and
// parentheses, using math/big.Float so qad{} can reach full 112-bit
// mantissa precision; no ecosystem binary128 encoder exists anywhere
// in the retrieval pack, so this is the stdlib fallback documented in
// DESIGN.md.
type decimalEvaluator struct {
	s        string
	i        int
	resolve  func(label string) (float64, bool)
}

func newDecimalEvaluator(s string, resolve func(string) (float64, bool)) *decimalEvaluator {
	return &decimalEvaluator{s: s, resolve: resolve}
}

// EvalBig evaluates the expression to a *big.Float with prec bits of
// working precision.
func (d *decimalEvaluator) EvalBig(prec uint) (*big.Float, error) {
	d.i = 0
	v, err := d.parseAdd(prec)
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.i != len(d.s) {
		return nil, fmt.Errorf("trailing characters in decimal expression %q", d.s)
	}
	return v, nil
}

func (d *decimalEvaluator) skipSpace() {
	for d.i < len(d.s) && (d.s[d.i] == ' ' || d.s[d.i] == '\t') {
		d.i++
	}
}

func (d *decimalEvaluator) parseAdd(prec uint) (*big.Float, error) {
	v, err := d.parseMul(prec)
	if err != nil {
		return nil, err
	}
	for {
		d.skipSpace()
		if d.i < len(d.s) && (d.s[d.i] == '+' || d.s[d.i] == '-') {
			op := d.s[d.i]
			d.i++
			rhs, err := d.parseMul(prec)
			if err != nil {
				return nil, err
			}
			if op == '+' {
				v = new(big.Float).SetPrec(prec).Add(v, rhs)
			} else {
				v = new(big.Float).SetPrec(prec).Sub(v, rhs)
			}
			continue
		}
		return v, nil
	}
}

func (d *decimalEvaluator) parseMul(prec uint) (*big.Float, error) {
	v, err := d.parseUnary(prec)
	if err != nil {
		return nil, err
	}
	for {
		d.skipSpace()
		if d.i < len(d.s) && (d.s[d.i] == '*' || d.s[d.i] == '/') {
			op := d.s[d.i]
			d.i++
			rhs, err := d.parseUnary(prec)
			if err != nil {
				return nil, err
			}
			if op == '*' {
				v = new(big.Float).SetPrec(prec).Mul(v, rhs)
			} else {
				if rhs.Sign() == 0 {
					return nil, fmt.Errorf("division by zero in decimal expression")
				}
				v = new(big.Float).SetPrec(prec).Quo(v, rhs)
			}
			continue
		}
		return v, nil
	}
}

func (d *decimalEvaluator) parseUnary(prec uint) (*big.Float, error) {
	d.skipSpace()
	if d.i < len(d.s) && d.s[d.i] == '-' {
		d.i++
		v, err := d.parseUnary(prec)
		if err != nil {
			return nil, err
		}
		return new(big.Float).SetPrec(prec).Neg(v), nil
	}
	return d.parsePrimary(prec)
}

func (d *decimalEvaluator) parsePrimary(prec uint) (*big.Float, error) {
	d.skipSpace()
	if d.i >= len(d.s) {
		return nil, fmt.Errorf("unexpected end of decimal expression")
	}
	if d.s[d.i] == '(' {
		d.i++
		v, err := d.parseAdd(prec)
		if err != nil {
			return nil, err
		}
		d.skipSpace()
		if d.i >= len(d.s) || d.s[d.i] != ')' {
			return nil, fmt.Errorf("missing ) in decimal expression")
		}
		d.i++
		return v, nil
	}
	if d.s[d.i] == ':' {
		start := d.i
		d.i++
		for d.i < len(d.s) && isAlnum(d.s[d.i]) {
			d.i++
		}
		name := d.s[start+1 : d.i]
		if d.resolve == nil {
			return nil, fmt.Errorf("no label resolver for %q", name)
		}
		fv, ok := d.resolve(name)
		if !ok {
			return nil, fmt.Errorf("undefined label %q in decimal expression", name)
		}
		return new(big.Float).SetPrec(prec).SetFloat64(fv), nil
	}
	start := d.i
	for d.i < len(d.s) && (d.s[d.i] == '.' || (d.s[d.i] >= '0' && d.s[d.i] <= '9')) {
		d.i++
	}
	if d.i == start {
		return nil, fmt.Errorf("unexpected character %q in decimal expression", d.s[d.i])
	}
	text := d.s[start:d.i]
	v, ok := new(big.Float).SetPrec(prec).SetString(text)
	if !ok {
		return nil, fmt.Errorf("invalid decimal literal %q", text)
	}
	return v, nil
}

// encodeFloat32 evaluates e and returns the IEEE-754 binary32 bit
// pattern, zero-extended into an Int256.
func encodeFloat32(e string, resolve func(string) (float64, bool)) Int256 {
	if bits, _, ok := specialFloatBits32(e); ok {
		return FromUint64(uint64(bits))
	}
	ev := newDecimalEvaluator(e, resolve)
	v, err := ev.EvalBig(64)
	if err != nil {
		return zero256()
	}
	f64, _ := v.Float64()
	return FromUint64(uint64(math.Float32bits(float32(f64))))
}

// encodeFloat64 evaluates e and returns the IEEE-754 binary64 bit
// pattern, zero-extended into an Int256.
func encodeFloat64(e string, resolve func(string) (float64, bool)) Int256 {
	if bits, _, ok := specialFloatBits64(e); ok {
		return FromUint64(bits)
	}
	ev := newDecimalEvaluator(e, resolve)
	v, err := ev.EvalBig(64)
	if err != nil {
		return zero256()
	}
	f64, _ := v.Float64()
	return FromUint64(math.Float64bits(f64))
}

// encodeFloat128 evaluates e and returns the IEEE-754 binary128 bit
// pattern packed little-endian into the low 128 bits of an Int256,
// computed with >112 bits of working precision via math/big.Float.
func encodeFloat128(e string, resolve func(string) (float64, bool)) Int256 {
	if special, sign, isInf, isNan := specialFloatKind(e); special {
		return binary128Special(sign, isInf, isNan)
	}
	ev := newDecimalEvaluator(e, resolve)
	v, err := ev.EvalBig(160)
	if err != nil {
		return zero256()
	}
	return binary128FromBig(v)
}

func specialFloatKind(e string) (special bool, negative bool, isInf bool, isNan bool) {
	t := strings.TrimSpace(strings.ToLower(e))
	switch t {
	case "inf":
		return true, false, true, false
	case "-inf":
		return true, true, true, false
	case "nan":
		return true, false, false, true
	}
	return false, false, false, false
}

func specialFloatBits32(e string) (bits uint32, special bool, ok bool) {
	sp, neg, isInf, isNan := specialFloatKind(e)
	if !sp {
		return 0, false, false
	}
	switch {
	case isNan:
		return math.Float32bits(float32(math.NaN())), true, true
	case isInf && neg:
		return math.Float32bits(float32(math.Inf(-1))), true, true
	case isInf:
		return math.Float32bits(float32(math.Inf(1))), true, true
	}
	return 0, true, true
}

func specialFloatBits64(e string) (bits uint64, special bool, ok bool) {
	sp, neg, isInf, isNan := specialFloatKind(e)
	if !sp {
		return 0, false, false
	}
	switch {
	case isNan:
		return math.Float64bits(math.NaN()), true, true
	case isInf && neg:
		return math.Float64bits(math.Inf(-1)), true, true
	case isInf:
		return math.Float64bits(math.Inf(1)), true, true
	}
	return 0, true, true
}

// binary128Special builds the bit pattern for +-inf/nan directly.
func binary128Special(negative, isInf, isNan bool) Int256 {
	// binary128 layout: 1 sign + 15 exponent (all-ones for inf/nan) + 112 mantissa.
	_ = isInf
	r := FromInt64(0x7FFF).Shl(112)
	if isNan {
		r = r.Or(FromInt64(1).Shl(111)) // quiet NaN bit
	}
	if negative {
		r = r.Or(FromInt64(1).Shl(127))
	}
	return r
}

// binary128FromBig packs a big.Float into the binary128 bit layout:
// sign(1) | exponent(15, bias 16383) | mantissa(112).
func binary128FromBig(v *big.Float) Int256 {
	if v.Sign() == 0 {
		if v.Signbit() {
			return FromInt64(1).Shl(127)
		}
		return zero256()
	}
	neg := v.Sign() < 0
	mag := new(big.Float).SetPrec(v.Prec()).Abs(v)

	mant := new(big.Float).SetPrec(v.Prec())
	exp2 := mag.MantExp(mant) // mag = mant * 2^exp2, mant in [0.5,1)

	// Shift mant into [1,2) and adjust the unbiased exponent accordingly.
	mant = new(big.Float).SetPrec(v.Prec()).Mul(mant, big.NewFloat(2))
	unbiasedExp := exp2 - 1

	biased := unbiasedExp + 16383
	if biased <= 0 || biased >= 0x7FFF {
		// Out of representable range: saturate to zero or infinity.
		if biased >= 0x7FFF {
			r := FromInt64(0x7FFF).Shl(112)
			if neg {
				r = r.Or(FromInt64(1).Shl(127))
			}
			return r
		}
		if neg {
			return FromInt64(1).Shl(127)
		}
		return zero256()
	}

	// Fractional part of mant (mant - 1.0) scaled by 2^112, truncated.
	frac := new(big.Float).SetPrec(v.Prec() + 128).Sub(mant, big.NewFloat(1))
	scale := new(big.Float).SetPrec(v.Prec() + 128).SetMantExp(big.NewFloat(1), 112)
	frac.Mul(frac, scale)
	mantInt, _ := frac.Int(nil)
	mantissa := bigIntToInt256(mantInt)

	r := FromInt64(int64(biased)).Shl(112).Or(mantissa)
	if neg {
		r = r.Or(FromInt64(1).Shl(127))
	}
	return r
}

func bigIntToInt256(b *big.Int) Int256 {
	bs := b.Bytes() // big-endian
	var r Int256
	for i := 0; i < len(bs) && i < 32; i++ {
		limb := i / 8
		shift := uint(i % 8 * 8)
		r.W[limb] |= uint64(bs[len(bs)-1-i]) << shift
	}
	return r
}
