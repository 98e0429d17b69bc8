package model

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
)

// Time is an exact rational number of seconds. All temporal arithmetic in
// the model is exact - floating point would drift across nested relative
// offsets. The zero value is 0s.
type Time struct {
	num int64
	den int64 // 0 is treated as 1 so that the zero value stays useful
}

// Rat returns num/den seconds, normalized. den must not be zero.
func Rat(num, den int64) Time {
	if den == 0 {
		panic("model: rational time with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return Time{num, den}
}

// Seconds returns a whole number of seconds.
func Seconds(n int64) Time {
	return Time{n, 1}
}

// Millis returns a number of milliseconds.
func Millis(n int64) Time {
	return Rat(n, 1000)
}

// FrameTime converts a frame count at the given rational frame rate.
func FrameTime(frames, rateNum, rateDen int64) Time {
	return Rat(frames*rateDen, rateNum)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func (t Time) norm() (int64, int64) {
	if t.den == 0 {
		return t.num, 1
	}
	return t.num, t.den
}

func (t Time) Add(o Time) Time {
	tn, td := t.norm()
	on, od := o.norm()
	return addRat(tn, td, on, od)
}

func (t Time) Sub(o Time) Time {
	tn, td := t.norm()
	on, od := o.norm()
	if on == math.MinInt64 {
		return addRatBig(tn, td, on, od, -1)
	}
	return addRat(tn, td, -on, od)
}

// addRat computes an/ad + bn/bd exactly. The denominators are reduced by
// their gcd first; denominator mixes that still overflow int64 go through
// big.Rat.
func addRat(an, ad, bn, bd int64) Time {
	g := gcd(ad, bd)
	l, ok1 := mul64(an, bd/g)
	r, ok2 := mul64(bn, ad/g)
	den, ok3 := mul64(ad, bd/g)
	if ok1 && ok2 && ok3 {
		if num, ok := add64(l, r); ok {
			return Rat(num, den)
		}
	}
	return addRatBig(an, ad, bn, bd, 1)
}

func addRatBig(an, ad, bn, bd, sign int64) Time {
	b := big.NewRat(bn, bd)
	if sign < 0 {
		b.Neg(b)
	}
	sum := new(big.Rat).Add(big.NewRat(an, ad), b)
	// big.Rat normalizes; a reduced result outside the int64 range is not
	// representable as a Time at all
	return Rat(sum.Num().Int64(), sum.Denom().Int64())
}

func mul64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func add64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

// Cmp returns -1, 0 or +1 depending on whether t is less than, equal to or
// greater than o. The cross products are compared as 128-bit values, so
// the result is exact for the whole int64 range.
func (t Time) Cmp(o Time) int {
	tn, td := t.norm()
	on, od := o.norm()
	if (tn < 0) != (on < 0) {
		if tn < on {
			return -1
		}
		return 1
	}
	// uint64(abs(x)) yields the magnitude even for MinInt64
	lhi, llo := bits.Mul64(uint64(abs(tn)), uint64(od))
	rhi, rlo := bits.Mul64(uint64(abs(on)), uint64(td))
	c := 0
	switch {
	case lhi != rhi:
		if lhi < rhi {
			c = -1
		} else {
			c = 1
		}
	case llo != rlo:
		if llo < rlo {
			c = -1
		} else {
			c = 1
		}
	}
	if tn < 0 {
		return -c
	}
	return c
}

func (t Time) Before(o Time) bool { return t.Cmp(o) < 0 }

func (t Time) After(o Time) bool { return t.Cmp(o) > 0 }

func (t Time) Equal(o Time) bool { return t.Cmp(o) == 0 }

func MinTime(a, b Time) Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Seconds returns the value as a float, for display and rough math only.
func (t Time) Seconds() float64 {
	n, d := t.norm()
	return float64(n) / float64(d)
}

// ToMillis returns the value rounded to the nearest millisecond.
func (t Time) ToMillis() int64 {
	n, d := t.norm()
	v := n * 1000
	q := v / d
	if rem := v % d; rem*2 >= d {
		q++
	}
	return q
}

// Key returns the normalized num/den pair, usable as a map key.
func (t Time) Key() [2]int64 {
	n, d := t.norm()
	return [2]int64{n, d}
}

func (t Time) String() string {
	n, d := t.norm()
	if d == 1 {
		return strconv.FormatInt(n, 10) + "s"
	}
	return fmt.Sprintf("%d/%ds", n, d)
}
