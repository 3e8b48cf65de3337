package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Explore   Bwindi ", "Explore Bwindi"},
		{"already clean", "already clean"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"   ", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := TrimAndNormalize(tc.in); got != tc.want {
			t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEmailLowercases(t *testing.T) {
	if got := NormalizeEmail("  ADA@Example.COM "); got != "ada@example.com" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeCategoryCollapsesAndLowercases(t *testing.T) {
	if got := NormalizeCategory("  Gorilla   Trekking "); got != "gorilla trekking" {
		t.Errorf("got %q", got)
	}
}

func TestPipelineAppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "b" },
		func(s string) string { return s + "c" },
	}
	if got := p.Apply("a"); got != "abc" {
		t.Errorf("got %q", got)
	}
}
