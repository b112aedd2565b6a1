package workflow

import (
	"context"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
)

// DonationSource abstracts where an organization's recurring records come
// from. Current organizations only have this system's donations; migrated
// organizations blend in the imported legacy autopayments. One aggregation
// engine runs against either variant, selected once via the migrated flag.
type DonationSource interface {
	// RecurringDonations returns the organization's recurring-eligible
	// completed donations in creation order.
	RecurringDonations(ctx context.Context, organizationId string) ([]*models.Donation, error)
	// LegacyAutopayments returns imported subscriptions, ordered by
	// subscription key. Empty for current-system organizations.
	LegacyAutopayments(ctx context.Context, organizationId string) ([]*models.LegacyAutopayment, error)
}

// SourceFor picks the source variant for an organization. The caller
// resolves the migrated flag once (models.IsMigratedOrganization) and passes
// it in, keeping the branch testable in isolation.
func SourceFor(migrated bool) DonationSource {
	if migrated && !config.SkipLegacyAutopayments() {
		return LegacyAugmentedSource{}
	}
	return CurrentSystemSource{}
}

type CurrentSystemSource struct{}

func (CurrentSystemSource) RecurringDonations(ctx context.Context, organizationId string) ([]*models.Donation, error) {
	return recurringEligibleDonations(ctx, organizationId)
}

func (CurrentSystemSource) LegacyAutopayments(ctx context.Context, organizationId string) ([]*models.LegacyAutopayment, error) {
	return nil, nil
}

type LegacyAugmentedSource struct{}

func (LegacyAugmentedSource) RecurringDonations(ctx context.Context, organizationId string) ([]*models.Donation, error) {
	return recurringEligibleDonations(ctx, organizationId)
}

func (LegacyAugmentedSource) LegacyAutopayments(ctx context.Context, organizationId string) ([]*models.LegacyAutopayment, error) {
	return models.LegacyAutopaymentsForOrganization(ctx, organizationId)
}

// recurringEligibleDonations narrows the SQL candidate fetch down to
// records with a usable subscription key. Malformed metadata drops the
// record here instead of failing the run.
func recurringEligibleDonations(ctx context.Context, organizationId string) ([]*models.Donation, error) {
	candidates, err := models.CompletedRecurringCandidates(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	eligible := make([]*models.Donation, 0, len(candidates))
	for _, d := range candidates {
		if d.SubscriptionKey() != "" {
			eligible = append(eligible, d)
		}
	}
	return eligible, nil
}
