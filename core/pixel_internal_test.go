package stitchpaint

import (
	"math"
	"testing"
)

func TestClampChannel(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-3, 0},
		{math.NaN(), 0},
		{127.5, 128},
		{127.49, 127},
		{0.5*127 + 0.5*129, 128},
		{254.6, 255},
		{300, 255},
	}
	for _, c := range cases {
		if got := clampChannel(c.in); got != c.want {
			t.Errorf("clampChannel(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
