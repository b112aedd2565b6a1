package models

import (
	"strings"
	"testing"
)

func TestNormalizeDonorLabel_AnonymousBucket(t *testing.T) {
	for _, raw := range []string{"", "   ", "undefined", "Undefined", "N/A", "n/a", "-", " - "} {
		if got := NormalizeDonorLabel(raw); got != AnonymousDonorLabel {
			t.Errorf("%q: got %q, want %q", raw, got, AnonymousDonorLabel)
		}
	}
}

func TestNormalizeDonorLabel_RealNamesPassThrough(t *testing.T) {
	cases := []struct{ raw, want string }{
		{"Mg Mg", "Mg Mg"},
		{"  Daw Hla  ", "Daw Hla"},
		{"undefined person", "undefined person"},
		{"--", "--"},
	}
	for _, tc := range cases {
		if got := NormalizeDonorLabel(tc.raw); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMaskSubscriptionKey_ShortKeys(t *testing.T) {
	cases := []struct{ key, want string }{
		{"", "****"},
		{"ab", "****ab"},
		{"abcd", "****abcd"},
		{"abcdefgh", "****efgh"},
	}
	for _, tc := range cases {
		if got := MaskSubscriptionKey(tc.key); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestMaskSubscriptionKey_LongKeys(t *testing.T) {
	got := MaskSubscriptionKey("pm_1234567890abcd")
	if got != "pm_1***abcd" {
		t.Fatalf("got %q, want pm_1***abcd", got)
	}
}

func TestMaskSubscriptionKey_NeverRevealsMoreThanEightChars(t *testing.T) {
	key := "abcdefghijklmnopqrstuvwxyz"
	for n := 0; n <= len(key); n++ {
		original := key[:n]
		masked := MaskSubscriptionKey(original)
		revealed := 0
		for _, r := range masked {
			if r != '*' {
				revealed++
			}
		}
		if revealed > 8 {
			t.Errorf("len %d: mask %q reveals %d characters", n, masked, revealed)
		}
		if n > 8 && !strings.Contains(masked, "***") {
			t.Errorf("len %d: mask %q carries no redaction", n, masked)
		}
	}
}
