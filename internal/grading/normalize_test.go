package grading

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "PARIS", want: "paris"},
		{name: "trims surrounding whitespace", in: "  Paris  ", want: "paris"},
		{name: "collapses inner runs", in: "the\t quick \n brown", want: "the quick brown"},
		{name: "empty input", in: "", want: ""},
		{name: "whitespace only", in: " \t\n ", want: ""},
		{name: "already normalized", in: "true", want: "true"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
