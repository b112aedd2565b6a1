package models

import "strings"

// AnonymousDonorLabel is the canonical bucket for donors without a usable
// name. Anonymous donations aggregate together under this one label instead
// of being dropped.
const AnonymousDonorLabel = "Anonymous donation"

// donorNamePlaceholders are literal sentinels the legacy importer wrote when
// no real name was captured. They are treated the same as an empty name.
var donorNamePlaceholders = map[string]struct{}{
	"undefined": {},
	"n/a":       {},
	"-":         {},
}

// BlankDonorName reports whether raw carries no real donor name: empty after
// trimming, or a known legacy import artifact.
func BlankDonorName(raw string) bool {
	name := strings.TrimSpace(raw)
	if name == "" {
		return true
	}
	_, isPlaceholder := donorNamePlaceholders[strings.ToLower(name)]
	return isPlaceholder
}

// NormalizeDonorLabel maps a free-text donor name to its display label.
// Blank or placeholder names fold into the anonymous bucket; every other
// name is returned trimmed and otherwise unchanged.
//
// Callers that must exclude a group entirely (structurally invalid, nothing
// to show) decide that themselves; this function always yields a label so
// anonymous donations still merge into one aggregate row.
func NormalizeDonorLabel(raw string) string {
	if BlankDonorName(raw) {
		return AnonymousDonorLabel
	}
	return strings.TrimSpace(raw)
}

const subscriptionKeyRedaction = "***"

// MaskSubscriptionKey redacts a saved payment method id for display.
// Long keys keep their first and last four characters; keys of eight
// characters or fewer reveal only the last four, so a mask never exposes
// more than eight characters of the original key.
func MaskSubscriptionKey(key string) string {
	if len(key) <= 8 {
		last := key
		if len(key) > 4 {
			last = key[len(key)-4:]
		}
		return "****" + last
	}
	return key[:4] + subscriptionKeyRedaction + key[len(key)-4:]
}
