package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
)

// LegacyAutopayment is a subscription imported from the prior system.
// It is read-only here: the migration pipeline owns these rows, the
// aggregation engine only consumes them. A legacy subscription surfaces in
// listings even when it produced zero matching donations in this system.
type LegacyAutopayment struct {
	Id              int             `gorm:"primaryKey" json:"id"`
	OrganizationId  string          `gorm:"size:64;index:idx_legacy_autopayments_org_key,priority:1" json:"organization_id" validate:"required"`
	SubscriptionKey string          `gorm:"size:128;index:idx_legacy_autopayments_org_key,priority:2" json:"subscription_key" validate:"required"`
	Title           string          `gorm:"size:255" json:"title"`
	PhoneNumber     string          `gorm:"size:64" json:"phone_number"`
	Amount          int64           `json:"amount" validate:"gte=0"`
	RecurringPeriod RecurringPeriod `gorm:"size:16" json:"recurring_period" validate:"omitempty,oneof=daily weekly monthly"`
	PaymentMethod   string          `gorm:"size:64" json:"payment_method"`
	FirstPaymentAt  *time.Time      `json:"first_payment_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// DonorLabel picks the legacy record's best display name: the stored title,
// falling back to the phone number. Either wins over whatever name the
// current system captured for the same subscription key.
func (l *LegacyAutopayment) DonorLabel() string {
	if !BlankDonorName(l.Title) {
		return NormalizeDonorLabel(l.Title)
	}
	if l.PhoneNumber != "" {
		return l.PhoneNumber
	}
	return AnonymousDonorLabel
}

// LegacyAutopaymentsForOrganization returns the organization's imported
// subscriptions ordered by subscription key for stable pagination.
func LegacyAutopaymentsForOrganization(ctx context.Context, organizationId string) ([]*LegacyAutopayment, error) {
	db := config.GetDB()
	var rows []*LegacyAutopayment
	err := db.WithContext(ctx).
		Where("organization_id = ?", organizationId).
		Order("subscription_key, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
