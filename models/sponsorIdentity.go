package models

import (
	"fmt"
	"strings"
)

// ResolveSponsorIdentity derives a stable grouping key for a payer without
// requiring a user account. Priority: linked account > email > phone > name,
// with the donation id as the final fallback so every record maps to some
// group, at worst a singleton.
//
// Emails are lowercased; phone numbers are grouped exactly as stored.
func ResolveSponsorIdentity(d *Donation) string {
	if d.DonorAccountId != nil {
		return fmt.Sprintf("user:%d", *d.DonorAccountId)
	}
	if d.DonorEmail != "" {
		return "email:" + strings.ToLower(d.DonorEmail)
	}
	if d.DonorPhone != "" {
		return "phone:" + d.DonorPhone
	}
	if d.DonorName != "" {
		return "name:" + d.DonorName
	}
	return fmt.Sprintf("donation:%d", d.Id)
}

// SponsorIdentityDisplayFallback derives a display label for an identified
// sponsor whose records carry no usable name. Contact-identified groups
// (account, email, phone) keep their own leaderboard row labeled by the
// contact handle; the name and donation fallback classes return ok=false
// and fold into the anonymous bucket instead.
func SponsorIdentityDisplayFallback(identity string) (string, bool) {
	switch {
	case strings.HasPrefix(identity, "email:"):
		return strings.TrimPrefix(identity, "email:"), true
	case strings.HasPrefix(identity, "phone:"):
		return strings.TrimPrefix(identity, "phone:"), true
	case strings.HasPrefix(identity, "user:"):
		return "Donor " + strings.TrimPrefix(identity, "user:"), true
	}
	return "", false
}
