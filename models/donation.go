package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
)

// Donation is a single payment attempt captured by the payment subsystem.
// Amount is stored in minor currency units; only Completed donations
// participate in monetary aggregation.
//
// RecurringMetadata is the gateway's loosely-typed bag as received. It is
// parsed once at the boundary via ParseRecurringMetadata; downstream code
// never touches the raw bytes.
type Donation struct {
	Id             int            `gorm:"primaryKey" json:"id"`
	OrganizationId string         `gorm:"size:64;index:idx_donations_org_status,priority:1" json:"organization_id"`
	Status         DonationStatus `gorm:"size:20;index:idx_donations_org_status,priority:2" json:"status"`
	Amount         int64          `json:"amount"`
	Currency       string         `gorm:"size:8" json:"currency"`

	DonorAccountId *int   `json:"donor_account_id"`
	DonorName      string `gorm:"size:255" json:"donor_name"`
	DonorEmail     string `gorm:"size:255" json:"donor_email"`
	DonorPhone     string `gorm:"size:64" json:"donor_phone"`
	IsAnonymous    bool   `json:"is_anonymous"`

	PaymentMethod     string     `gorm:"size:64" json:"payment_method"`
	PaidAt            *time.Time `json:"paid_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RecurringMetadata []byte     `gorm:"type:json" json:"recurring_metadata,omitempty"`
}

// CompletedDonations returns the organization's completed donations in
// creation order. The status gate lives in SQL; grouping happens in
// application code over this bulk fetch.
func CompletedDonations(ctx context.Context, organizationId string) ([]*Donation, error) {
	db := config.GetDB()
	var donations []*Donation
	err := db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationId, DonationStatusCompleted).
		Order("created_at, id").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

// CompletedRecurringCandidates narrows the bulk fetch to completed donations
// that carry any recurring metadata at all. Eligibility proper
// (SubscriptionKey != "") is decided in application code after parsing.
func CompletedRecurringCandidates(ctx context.Context, organizationId string) ([]*Donation, error) {
	db := config.GetDB()
	var donations []*Donation
	err := db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationId, DonationStatusCompleted).
		Where("recurring_metadata IS NOT NULL").
		Order("created_at, id").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}
