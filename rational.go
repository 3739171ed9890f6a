package avshim

import (
	"fmt"
	"math"
	"math/bits"
)

// Rational mirrors AVRational: two C ints, numerator first.
type Rational struct {
	Num int32
	Den int32
}

// Float64 returns Num/Den, or 0 if Den is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Seconds converts a timestamp in units of r to seconds. ok is false for
// NoPTS or a zero denominator.
func (r Rational) Seconds(ts int64) (sec float64, ok bool) {
	if ts == NoPTS || r.Den == 0 {
		return 0, false
	}
	return float64(ts) * float64(r.Num) / float64(r.Den), true
}

// Rescale converts ts from time base r to time base to, rounding half away
// from zero like av_rescale_q. NoPTS passes through; a zero time base or an
// out of range result yields NoPTS.
func (r Rational) Rescale(ts int64, to Rational) int64 {
	if ts == NoPTS {
		return NoPTS
	}
	num := int64(r.Num) * int64(to.Den)
	den := int64(r.Den) * int64(to.Num)
	if den == 0 {
		return NoPTS
	}
	if den < 0 {
		num, den = -num, -den
	}
	neg := (ts < 0) != (num < 0)

	d := uint64(den)
	hi, lo := bits.Mul64(absU64(ts), absU64(num))
	lo, carry := bits.Add64(lo, d/2, 0)
	hi += carry
	if hi >= d {
		return NoPTS
	}
	q, _ := bits.Div64(hi, lo, d)
	if q > math.MaxInt64 {
		return NoPTS
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
