package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
)

// AutopaymentHistoryPreviewCount caps the visible payment history of one
// subscription row. The true total is kept for "show more" affordances.
const AutopaymentHistoryPreviewCount = 10

// SubscriptionGroup collects everything known about one recurring payment
// method: this system's charges plus, for migrated organizations, the
// imported legacy record. A legacy subscription with zero matching charges
// still forms a group; it must surface in listings.
type SubscriptionGroup struct {
	Key string

	// Representative is the earliest donation by creation order (first
	// payment derivation). Nil for legacy-only groups.
	Representative *models.Donation
	// Donations is ordered newest-first for display.
	Donations []*models.Donation

	Legacy *models.LegacyAutopayment
}

// GroupSubscriptions groups recurring-eligible donations by subscription key
// and attaches legacy records by the same key. Donations must arrive in
// creation order. The result is ordered by key so listing pagination is
// stable.
func GroupSubscriptions(donations []*models.Donation, legacy []*models.LegacyAutopayment) []*SubscriptionGroup {

	byKey := make(map[string]*SubscriptionGroup)
	keys := make([]string, 0)

	group := func(key string) *SubscriptionGroup {
		g := byKey[key]
		if g == nil {
			g = &SubscriptionGroup{Key: key}
			byKey[key] = g
			keys = append(keys, key)
		}
		return g
	}

	for _, d := range donations {
		key := d.SubscriptionKey()
		if key == "" {
			continue
		}
		g := group(key)
		if g.Representative == nil {
			g.Representative = d
		}
		g.Donations = append(g.Donations, d)
	}

	for _, l := range legacy {
		group(l.SubscriptionKey).Legacy = l
	}

	// Display order is newest-first; input order was oldest-first.
	for _, g := range byKey {
		for i, j := 0, len(g.Donations)-1; i < j; i, j = i+1, j-1 {
			g.Donations[i], g.Donations[j] = g.Donations[j], g.Donations[i]
		}
	}

	sort.Strings(keys)
	groups := make([]*SubscriptionGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, byKey[key])
	}
	return groups
}

// DonorLabel resolves the group's display name. The legacy record's
// title/phone is the more authoritative source when it actually carries
// one; otherwise the first non-anonymous donor name captured on a charge,
// normalized.
func (g *SubscriptionGroup) DonorLabel() string {
	if g.Legacy != nil {
		if label := g.Legacy.DonorLabel(); label != models.AnonymousDonorLabel {
			return label
		}
	}
	// Donations are newest-first; scan from the oldest (the name captured at
	// subscription time).
	for i := len(g.Donations) - 1; i >= 0; i-- {
		d := g.Donations[i]
		if d.IsAnonymous {
			continue
		}
		if !models.BlankDonorName(d.DonorName) {
			return models.NormalizeDonorLabel(d.DonorName)
		}
	}
	return models.AnonymousDonorLabel
}

// TotalAmount sums this system's charges; a legacy-only group falls back to
// the legacy record's stored amount so it is not silently dropped.
func (g *SubscriptionGroup) TotalAmount() int64 {
	if len(g.Donations) == 0 {
		if g.Legacy != nil {
			return g.Legacy.Amount
		}
		return 0
	}
	var total int64
	for _, d := range g.Donations {
		total += d.Amount
	}
	return total
}

// ChargeAmount is the per-charge amount shown on a listing row.
func (g *SubscriptionGroup) ChargeAmount() int64 {
	if g.Representative != nil {
		return g.Representative.Amount
	}
	if g.Legacy != nil {
		return g.Legacy.Amount
	}
	return 0
}

// Period prefers the metadata captured on this system's charges and falls
// back to the legacy record.
func (g *SubscriptionGroup) Period() models.RecurringPeriod {
	if g.Representative != nil {
		if p := g.Representative.RecurringPeriodOf(); p != "" {
			return p
		}
	}
	if g.Legacy != nil {
		return g.Legacy.RecurringPeriod
	}
	return ""
}

func (g *SubscriptionGroup) PaymentMethod() string {
	if g.Representative != nil && g.Representative.PaymentMethod != "" {
		return g.Representative.PaymentMethod
	}
	if g.Legacy != nil {
		return g.Legacy.PaymentMethod
	}
	return ""
}

// FirstPaymentAt derives the subscription start: the oldest charge's paid
// time (creation time when unpaid timestamps are missing), else the legacy
// record's first payment date.
func (g *SubscriptionGroup) FirstPaymentAt() *time.Time {
	if g.Representative != nil {
		if g.Representative.PaidAt != nil {
			return g.Representative.PaidAt
		}
		t := g.Representative.CreatedAt
		return &t
	}
	if g.Legacy != nil {
		return g.Legacy.FirstPaymentAt
	}
	return nil
}

// RecurringAggregate is one recurring leaderboard row. DonationsCount counts
// distinct subscriptions, never raw charges: a person's repeated monthly
// charges are one supporter. Two subscription keys resolving to the same
// label count as two.
type RecurringAggregate struct {
	DonorLabel     string `json:"donor_label"`
	TotalAmount    int64  `json:"total_amount"`
	DonationsCount int    `json:"donations_count"`
}

// BuildRecurringLeaderboard merges subscription groups that display under
// one label and sorts by contribution.
func BuildRecurringLeaderboard(groups []*SubscriptionGroup) []RecurringAggregate {

	merged := make(map[string]*RecurringAggregate)
	for _, g := range groups {
		label := g.DonorLabel()
		agg := merged[label]
		if agg == nil {
			agg = &RecurringAggregate{DonorLabel: label}
			merged[label] = agg
		}
		agg.TotalAmount += g.TotalAmount()
		agg.DonationsCount++
	}

	rows := make([]RecurringAggregate, 0, len(merged))
	for _, agg := range merged {
		rows = append(rows, *agg)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalAmount != rows[j].TotalAmount {
			return rows[i].TotalAmount > rows[j].TotalAmount
		}
		return rows[i].DonorLabel < rows[j].DonorLabel
	})
	return rows
}

// ComputeRecurringLeaderboard recomputes and fully replaces the
// organization's recurring sponsor snapshot, blending legacy records for
// migrated organizations.
func ComputeRecurringLeaderboard(ctx context.Context, organizationId string) error {
	logger := config.GetLogger()

	migrated, err := models.IsMigratedOrganization(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "recurringAggregation.go", "ComputeRecurringLeaderboard", "IsMigratedOrganization", organizationId, err)
		return err
	}
	source := SourceFor(migrated)

	donations, err := source.RecurringDonations(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "recurringAggregation.go", "ComputeRecurringLeaderboard", "RecurringDonations", organizationId, err)
		return err
	}
	legacy, err := source.LegacyAutopayments(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "recurringAggregation.go", "ComputeRecurringLeaderboard", "LegacyAutopayments", organizationId, err)
		return err
	}

	aggregates := BuildRecurringLeaderboard(GroupSubscriptions(donations, legacy))

	rows := make([]*models.RecurringSponsorSnapshot, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, &models.RecurringSponsorSnapshot{
			OrganizationId: organizationId,
			DonorLabel:     agg.DonorLabel,
			TotalAmount:    agg.TotalAmount,
			DonationsCount: agg.DonationsCount,
		})
	}
	return ReplaceRecurringSponsorSnapshots(ctx, organizationId, rows)
}

// GetRecurringLeaderboard reads one page of the recurring snapshot.
func GetRecurringLeaderboard(ctx context.Context, organizationId string, page int, perPage int) (models.Page[*models.RecurringSponsorSnapshot], error) {
	rows, err := GetRecurringSponsorSnapshots(ctx, organizationId)
	if err != nil {
		return models.Page[*models.RecurringSponsorSnapshot]{}, err
	}
	return models.Paginate(rows, page, perPage, models.LeaderboardMaxPerPage), nil
}
