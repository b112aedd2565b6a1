package models

import "time"

// SponsorSnapshot is a precomputed one-time donor leaderboard row.
//
// Grain: (organization_id, donor_label).
//
// NOTE: This table is derived data and is fully replaced per organization on
// recompute (delete-all then insert). Rows are never patched in place:
// labels can merge or split as normalization rules evolve, which makes
// per-row diffing meaningless.
type SponsorSnapshot struct {
	OrganizationId string `gorm:"primaryKey;size:64" json:"organization_id"`
	DonorLabel     string `gorm:"primaryKey;size:255" json:"donor_label"`

	TotalAmount     int64     `json:"total_amount"`
	PaymentsCount   int       `json:"payments_count"`
	LatestPaymentAt time.Time `json:"latest_payment_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecurringSponsorSnapshot is a precomputed recurring-donor leaderboard row.
// DonationsCount counts distinct subscriptions (saved payment methods), not
// raw charges: one person's repeated monthly charges are one supporter.
type RecurringSponsorSnapshot struct {
	OrganizationId string `gorm:"primaryKey;size:64" json:"organization_id"`
	DonorLabel     string `gorm:"primaryKey;size:255" json:"donor_label"`

	TotalAmount    int64 `json:"total_amount"`
	DonationsCount int   `json:"donations_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
