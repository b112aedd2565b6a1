package config

import (
	"os"
	"strings"
)

// SkipLegacyAutopayments disables blending legacy autopayment rows into
// listings for migrated organizations. Emergency switch for bad imports.
//
// Set via env:
// - SKIP_LEGACY_AUTOPAYMENTS=true
func SkipLegacyAutopayments() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SKIP_LEGACY_AUTOPAYMENTS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
