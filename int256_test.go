package main

import "testing"

func TestInt256FloorDivFloorsTowardNegativeInfinity(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{0, 5, 0},
		{6, 3, 2},
		{-6, 3, -2},
	}
	for _, c := range cases {
		got := FromInt64(c.a).FloorDiv(FromInt64(c.b)).Int64()
		if got != c.want {
			t.Errorf("FloorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestInt256ModTakesSignOfDivisor(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 2, 1},
		{-7, 2, 1},
		{7, -2, -1},
		{-7, -2, -1},
	}
	for _, c := range cases {
		got := FromInt64(c.a).Mod(FromInt64(c.b)).Int64()
		if got != c.want {
			t.Errorf("Mod(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestInt256FloorDivModIdentity(t *testing.T) {
	// a == FloorDiv(a,b)*b + Mod(a,b), for every sign combination.
	values := []int64{13, -13, 1, -1, 100, -100}
	divisors := []int64{4, -4, 7, -7}
	for _, a := range values {
		for _, b := range divisors {
			av, bv := FromInt64(a), FromInt64(b)
			q := av.FloorDiv(bv)
			r := av.Mod(bv)
			sum := q.UMul(bv).Add(r)
			if sum.Int64() != a {
				t.Errorf("identity failed for a=%d b=%d: q=%s r=%s sum=%s", a, b, q, r, sum)
			}
		}
	}
}

func TestInt256ShlShrDuality(t *testing.T) {
	for n := 0; n < 64; n++ {
		v := FromInt64(12345)
		shifted := v.Shl(n)
		back := shifted.Shr(n)
		if !back.Equal(v) {
			t.Errorf("Shr(Shl(v,%d),%d) = %s, want %s", n, n, back, v)
		}
	}
}

func TestInt256SarPreservesSignOnLargeShift(t *testing.T) {
	neg := FromInt64(-1)
	if !neg.Sar(300).Equal(FromInt64(-1)) {
		t.Errorf("Sar(-1, 300) should stay all-ones")
	}
	pos := FromInt64(1)
	if !pos.Sar(300).isZero() {
		t.Errorf("Sar(1, 300) should be zero")
	}
}

func TestInt256NbitInvariant(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, 0},
		{1, 1},
		{-1, 1}, // abs(-1) == 1, needs 1 bit
		{2, 2},
		{255, 8},
		{256, 9},
	}
	for _, c := range cases {
		got := FromInt64(c.v).Nbit()
		if got != c.want {
			t.Errorf("Nbit(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestInt256SignExtend(t *testing.T) {
	// 0x7F sign-extended from bit 6 (7-bit field) becomes -1, since bit 6 is set.
	v := FromInt64(0x7F).SignExtend(7)
	if v.Int64() != -1 {
		t.Errorf("SignExtend(0x7F,7) = %d, want -1 (top bit of the 7-bit field is set)", v.Int64())
	}
	v2 := FromInt64(0x3F).SignExtend(7)
	if v2.Int64() != 0x3F {
		t.Errorf("SignExtend(0x3F,7) = %d, want 63", v2.Int64())
	}
}

func TestInt256BytesRoundTrip(t *testing.T) {
	v := FromInt64(0x0102030405060708)
	be := v.Bytes(8, true)
	back := BytesToInt256BigEndian(be)
	if !back.Equal(v) {
		t.Errorf("big-endian byte round trip: got %s, want %s", back, v)
	}
}

func TestInt256ParseBase(t *testing.T) {
	v, err := ParseInt256Base("ff", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Int64() != 255 {
		t.Errorf("ParseInt256Base(ff,16) = %d, want 255", v.Int64())
	}
	if _, err := ParseInt256Base("g", 16); err == nil {
		t.Errorf("expected error for invalid digit")
	}
}
