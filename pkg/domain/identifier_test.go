package domain

import (
	"testing"

	"pgregory.net/rapid"
)

func TestValidID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"12345678", true},
		{"99999999", true},
		{"10000000", true},
		{"01234567", false},
		{"1234567", false},
		{"123456789", false},
		{"", false},
		{"1234567a", false},
		{" 2345678", false},
		{"12345678 ", false},
		{"1234-678", false},
		{"１2345678", false},
	}
	for _, tc := range cases {
		if got := ValidID(tc.in); got != tc.want {
			t.Errorf("ValidID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValidID_AcceptsEveryWellFormedID(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := rapid.StringMatching(`[1-9][0-9]{7}`).Draw(rt, "id")
		if !ValidID(id) {
			rt.Fatalf("expected %q to be valid", id)
		}
	})
}

func TestValidID_RejectsWrongLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringMatching(`[0-9]{0,20}`).Filter(func(s string) bool { return len(s) != IDLength }).Draw(rt, "s")
		if ValidID(s) {
			rt.Fatalf("expected %q (len %d) to be invalid", s, len(s))
		}
	})
}

func TestValidID_RejectsLeadingZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := "0" + rapid.StringMatching(`[0-9]{7}`).Draw(rt, "rest")
		if ValidID(s) {
			rt.Fatalf("expected %q to be invalid", s)
		}
	})
}

func TestValidID_RejectsNonDigit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		digits := []byte(rapid.StringMatching(`[1-9][0-9]{7}`).Draw(rt, "id"))
		pos := rapid.IntRange(0, IDLength-1).Draw(rt, "pos")
		bad := rapid.SampledFrom([]byte("aZ -./:_")).Draw(rt, "bad")
		digits[pos] = bad
		s := string(digits)
		if ValidID(s) {
			rt.Fatalf("expected %q to be invalid", s)
		}
	})
}
