package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSmartCase(t *testing.T) {
	if !SmartCase("readme") {
		t.Fatal("lower-case query should fold case")
	}
	if SmartCase("README") {
		t.Fatal("upper-case query should match exactly")
	}
	if !SmartCase("") {
		t.Fatal("empty query should fold case")
	}
}

func TestMatchLine(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		fold  bool
		want  []Span
	}{
		{name: "exact", text: "go to go", query: "go", want: []Span{{0, 2}, {6, 8}}},
		{name: "exact misses other case", text: "Go go", query: "go", want: []Span{{3, 5}}},
		{name: "folded", text: "Go go GO", query: "go", fold: true, want: []Span{{0, 2}, {3, 5}, {6, 8}}},
		{name: "non-overlapping", text: "aaaa", query: "aa", want: []Span{{0, 2}, {2, 4}}},
		{name: "wide runes", text: "日本語 text", query: "text", want: []Span{{7, 11}}},
		{name: "folded multibyte", text: "Zażółć GĘŚLĄ", query: "gęślą", fold: true, want: []Span{{7, 12}}},
		{name: "no match", text: "markdown", query: "html", want: nil},
		{name: "empty query", text: "markdown", query: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchLine(tt.text, tt.query, tt.fold)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("MatchLine(%q, %q) mismatch (-want +got):\n%s", tt.text, tt.query, diff)
			}
		})
	}
}

func TestFindAllUsesSmartCase(t *testing.T) {
	lines := []string{"Links and images", "", "more links", "LINKS"}

	got := FindAll(lines, "links")
	want := []Hit{
		{Line: 0, Span: Span{0, 5}},
		{Line: 2, Span: Span{5, 10}},
		{Line: 3, Span: Span{0, 5}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("folded FindAll mismatch (-want +got):\n%s", diff)
	}

	got = FindAll(lines, "LINKS")
	if diff := cmp.Diff([]Hit{{Line: 3, Span: Span{0, 5}}}, got); diff != "" {
		t.Fatalf("exact FindAll mismatch (-want +got):\n%s", diff)
	}
}

func TestNextIndex(t *testing.T) {
	hits := []Hit{{Line: 2}, {Line: 5}, {Line: 9}}
	cases := map[int]int{0: 0, 2: 0, 3: 1, 9: 2, 10: 0}
	for line, want := range cases {
		if got := NextIndex(hits, line); got != want {
			t.Errorf("NextIndex(%d) = %d, want %d", line, got, want)
		}
	}
	if got := NextIndex(nil, 0); got != -1 {
		t.Errorf("NextIndex on empty = %d, want -1", got)
	}
}

func TestContains(t *testing.T) {
	hits := []Hit{{Line: 1, Span: Span{2, 4}}}
	if !Contains(hits, 1, 2) || !Contains(hits, 1, 3) {
		t.Fatal("expected columns inside the span to match")
	}
	if Contains(hits, 1, 4) || Contains(hits, 0, 2) {
		t.Fatal("expected columns outside the span not to match")
	}
}
