package grading

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "identical", a: "abc", b: "abc", want: 1.0},
		{name: "one empty", a: "abc", b: "", want: 0.0},
		{name: "shifted overlap", a: "abcd", b: "bcde", want: 0.75},
		{name: "single insertion", a: "abcd", b: "abxcd", want: 8.0 / 9.0},
		{name: "typo ending", a: "mitochondria", b: "mitochondrion", want: 22.0 / 25.0},
		{name: "shared stem", a: "gravity", b: "gravitation", want: 12.0 / 18.0},
		{name: "disjoint", a: "xyz", b: "abc", want: 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Ratio(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRatioSymmetricBounds(t *testing.T) {
	pairs := [][2]string{
		{"the mitochondria is the powerhouse of the cell", "mitochondria power the cell"},
		{"short", "a much longer answer entirely"},
		{"", "nonempty"},
	}
	for _, p := range pairs {
		got := Ratio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("Ratio(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}
