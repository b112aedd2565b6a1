package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"github.com/mmdatafocus/donations_backend/utils"
)

// AutopaymentPayment is one (date, label) entry of a subscription's visible
// payment history, newest-first.
type AutopaymentPayment struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// AutopaymentRow is the presentation shape of one subscription in the
// autopayment listing. Unlike leaderboard rows, subscriptions are never
// merged across keys: each saved payment method is its own row even when one
// person holds two.
type AutopaymentRow struct {
	Title                 string                 `json:"title"`
	Amount                int64                  `json:"amount"`
	AmountFormatted       string                 `json:"amount_formatted"`
	RecurringPeriod       models.RecurringPeriod `json:"recurring_period"`
	RecurringPeriodLabel  string                 `json:"recurring_period_label"`
	PaymentMethod         string                 `json:"payment_method"`
	Payments              []AutopaymentPayment   `json:"payments"`
	PaymentsTotal         int                    `json:"payments_total"`
	FirstPaymentAt        *time.Time             `json:"first_payment_at"`
	SubscriptionKeyMasked string                 `json:"subscription_key_masked"`
}

// AutopaymentFilters narrows the listing. Zero value means no filtering.
type AutopaymentFilters struct {
	RecurringPeriod models.RecurringPeriod
}

// BuildAutopaymentRows renders subscription groups for display: masked key,
// formatted amounts, payment history capped to the preview count.
func BuildAutopaymentRows(groups []*SubscriptionGroup, currencySymbol string) []AutopaymentRow {

	rows := make([]AutopaymentRow, 0, len(groups))
	for _, g := range groups {
		period := g.Period()
		amount := g.ChargeAmount()

		payments := make([]AutopaymentPayment, 0, min(len(g.Donations), AutopaymentHistoryPreviewCount))
		for _, d := range g.Donations {
			if len(payments) == AutopaymentHistoryPreviewCount {
				break
			}
			at := d.CreatedAt
			if d.PaidAt != nil {
				at = *d.PaidAt
			}
			payments = append(payments, AutopaymentPayment{
				Date:  utils.FormatDate(at),
				Label: utils.FormatAmountMinor(d.Amount, currencySymbol),
			})
		}

		rows = append(rows, AutopaymentRow{
			Title:                 g.DonorLabel(),
			Amount:                amount,
			AmountFormatted:       utils.FormatAmountMinor(amount, currencySymbol),
			RecurringPeriod:       period,
			RecurringPeriodLabel:  period.Label(),
			PaymentMethod:         g.PaymentMethod(),
			Payments:              payments,
			PaymentsTotal:         len(g.Donations),
			FirstPaymentAt:        g.FirstPaymentAt(),
			SubscriptionKeyMasked: models.MaskSubscriptionKey(g.Key),
		})
	}
	return rows
}

// ListAutopayments computes the autopayment listing live from current
// records, blended with legacy records for migrated organizations. Rows are
// ordered by subscription key (stable pagination), not by amount.
func ListAutopayments(ctx context.Context, organizationId string, page int, perPage int, filters AutopaymentFilters) (models.Page[AutopaymentRow], error) {
	logger := config.GetLogger()
	empty := models.Page[AutopaymentRow]{}

	organization, err := models.GetOrganizationById(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "autopaymentListing.go", "ListAutopayments", "GetOrganizationById", organizationId, err)
		return empty, err
	}
	source := SourceFor(organization.IsMigrated)

	donations, err := source.RecurringDonations(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "autopaymentListing.go", "ListAutopayments", "RecurringDonations", organizationId, err)
		return empty, err
	}
	legacy, err := source.LegacyAutopayments(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "autopaymentListing.go", "ListAutopayments", "LegacyAutopayments", organizationId, err)
		return empty, err
	}

	groups := GroupSubscriptions(donations, legacy)
	if filters.RecurringPeriod != "" {
		filtered := groups[:0]
		for _, g := range groups {
			if g.Period() == filters.RecurringPeriod {
				filtered = append(filtered, g)
			}
		}
		groups = filtered
	}

	rows := BuildAutopaymentRows(groups, organization.Symbol())
	return models.Paginate(rows, page, perPage, models.AutopaymentListingMaxPerPage), nil
}
