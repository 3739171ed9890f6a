package avshim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRationalFloat64(t *testing.T) {
	assert.InDelta(t, 1.0/90000, Rational{1, 90000}.Float64(), 1e-15)
	assert.Equal(t, 0.0, Rational{1, 0}.Float64())
	assert.Equal(t, "30000/1001", Rational{30000, 1001}.String())
}

func TestRationalSeconds(t *testing.T) {
	tests := []struct {
		name   string
		tb     Rational
		ts     int64
		want   float64
		wantOK bool
	}{
		{"milliseconds", Rational{1, 1000}, 1500, 1.5, true},
		{"90kHz", Rational{1, 90000}, 90000, 1.0, true},
		{"zero", Rational{1, 48000}, 0, 0, true},
		{"negative", Rational{1, 1000}, -250, -0.25, true},
		{"no pts", Rational{1, 1000}, NoPTS, 0, false},
		{"zero den", Rational{1, 0}, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.tb.Seconds(tt.ts)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRationalRescale(t *testing.T) {
	ms := Rational{1, 1000}
	khz90 := Rational{1, 90000}

	tests := []struct {
		name     string
		ts       int64
		from, to Rational
		want     int64
	}{
		{"ms to 90kHz", 1000, ms, khz90, 90000},
		{"90kHz to ms", 90000, khz90, ms, 1000},
		{"round up", 1, Rational{1, 3}, Rational{1, 2}, 1},
		{"half away from zero", 3, Rational{1, 2}, Rational{1, 1}, 2},
		{"negative half away from zero", -3, Rational{1, 2}, Rational{1, 1}, -2},
		{"zero", 0, ms, khz90, 0},
		{"no pts", NoPTS, ms, khz90, NoPTS},
		{"wide intermediate", 1 << 40, Rational{1, 1 << 20}, Rational{1, 1 << 30}, 1 << 50},
		{"overflow", math.MaxInt64, Rational{1, 1}, Rational{1, 2}, NoPTS},
		{"zero target", 5, ms, Rational{0, 1}, NoPTS},
		{"negative time base", 10, Rational{1, 10}, Rational{-1, 100}, -100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Rescale(tt.ts, tt.to))
		})
	}
}
