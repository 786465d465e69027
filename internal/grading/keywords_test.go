package grading

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "filters stopwords and short tokens",
			in:   "The cell is the unit of life",
			want: []string{"cell", "unit", "life"},
		},
		{
			name: "lowercases tokens",
			in:   "Sunlight And WATER",
			want: []string{"sunlight", "water"},
		},
		{
			name: "keeps duplicates",
			in:   "water cycle water cycle",
			want: []string{"water", "cycle", "water", "cycle"},
		},
		{
			name: "splits on punctuation",
			in:   "glucose, oxygen; carbon-dioxide",
			want: []string{"glucose", "oxygen", "carbon", "dioxide"},
		},
		{
			name: "underscores are word characters",
			in:   "snake_case stays whole",
			want: []string{"snake_case", "stays", "whole"},
		},
		{name: "empty input", in: "", want: nil},
		{name: "only stopwords", in: "the a an is are", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractKeywords(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractKeywords(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
