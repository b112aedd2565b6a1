package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
)

// SponsorAggregate is one one-time leaderboard row: everything a single
// payer (or the shared anonymous bucket) contributed outside subscriptions.
type SponsorAggregate struct {
	DonorLabel      string    `json:"donor_label"`
	TotalAmount     int64     `json:"total_amount"`
	PaymentsCount   int       `json:"payments_count"`
	LatestPaymentAt time.Time `json:"latest_payment_at"`
}

type sponsorGroup struct {
	identity   string
	accountId  *int
	storedName string
	total      int64
	count      int
	latest     time.Time
}

// BuildOneTimeLeaderboard groups completed donations by sponsor identity,
// merges groups that resolve to the same display label, and sorts.
//
// Display name preference: the linked account's current name wins over the
// name stored on the donation; donations marked anonymous contribute no name
// at all. Nameless contact-identified groups label under their contact
// handle and stay distinct; only the fallback identity classes merge into
// the anonymous bucket. Groups whose total is not positive are excluded.
// Sorting always ends on the label ascending so pagination is stable across
// requests even when totals or dates tie.
func BuildOneTimeLeaderboard(donations []*models.Donation, accountNames map[int]string, sortMode models.LeaderboardSort) []SponsorAggregate {

	groups := make(map[string]*sponsorGroup)
	for _, d := range donations {
		if d.Status != models.DonationStatusCompleted {
			continue
		}
		identity := models.ResolveSponsorIdentity(d)
		g := groups[identity]
		if g == nil {
			g = &sponsorGroup{identity: identity}
			groups[identity] = g
		}
		g.total += d.Amount
		g.count++
		if d.CreatedAt.After(g.latest) {
			g.latest = d.CreatedAt
		}
		if d.DonorAccountId != nil && g.accountId == nil {
			g.accountId = d.DonorAccountId
		}
		if !d.IsAnonymous && g.storedName == "" && !models.BlankDonorName(d.DonorName) {
			g.storedName = d.DonorName
		}
	}

	// Merge identities that display under one label (the anonymous bucket in
	// particular). The snapshot table is keyed by label, so the merge happens
	// here, not at persistence.
	merged := make(map[string]*SponsorAggregate)
	for _, g := range groups {
		if g.total <= 0 {
			continue
		}
		label := sponsorLabel(g, accountNames)
		agg := merged[label]
		if agg == nil {
			agg = &SponsorAggregate{DonorLabel: label}
			merged[label] = agg
		}
		agg.TotalAmount += g.total
		agg.PaymentsCount += g.count
		if g.latest.After(agg.LatestPaymentAt) {
			agg.LatestPaymentAt = g.latest
		}
	}

	rows := make([]SponsorAggregate, 0, len(merged))
	for _, agg := range merged {
		rows = append(rows, *agg)
	}

	switch sortMode {
	case models.LeaderboardSortRecent:
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].LatestPaymentAt.Equal(rows[j].LatestPaymentAt) {
				return rows[i].LatestPaymentAt.After(rows[j].LatestPaymentAt)
			}
			if rows[i].TotalAmount != rows[j].TotalAmount {
				return rows[i].TotalAmount > rows[j].TotalAmount
			}
			return rows[i].DonorLabel < rows[j].DonorLabel
		})
	default:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].TotalAmount != rows[j].TotalAmount {
				return rows[i].TotalAmount > rows[j].TotalAmount
			}
			return rows[i].DonorLabel < rows[j].DonorLabel
		})
	}

	return rows
}

func sponsorLabel(g *sponsorGroup, accountNames map[int]string) string {
	if g.accountId != nil {
		if name, ok := accountNames[*g.accountId]; ok && !models.BlankDonorName(name) {
			return models.NormalizeDonorLabel(name)
		}
	}
	if !models.BlankDonorName(g.storedName) {
		return models.NormalizeDonorLabel(g.storedName)
	}
	// No usable name. A contact-identified donor is still a distinct person
	// and labels under the contact handle; only the name/donation fallback
	// classes join the anonymous bucket.
	if label, ok := models.SponsorIdentityDisplayFallback(g.identity); ok {
		return label
	}
	return models.AnonymousDonorLabel
}

// LiveOneTimeLeaderboard builds the one-time leaderboard directly from
// current records. The read path for organizations without a snapshot, and
// the loader behind snapshot recomputes.
func LiveOneTimeLeaderboard(ctx context.Context, organizationId string, sortMode models.LeaderboardSort) ([]SponsorAggregate, error) {
	logger := config.GetLogger()

	donations, err := models.CompletedDonations(ctx, organizationId)
	if err != nil {
		config.LogError(logger, "sponsorAggregation.go", "LiveOneTimeLeaderboard", "CompletedDonations", organizationId, err)
		return nil, err
	}

	accountIds := make([]int, 0)
	seen := make(map[int]bool)
	for _, d := range donations {
		if d.DonorAccountId != nil && !seen[*d.DonorAccountId] {
			seen[*d.DonorAccountId] = true
			accountIds = append(accountIds, *d.DonorAccountId)
		}
	}
	accountNames, err := models.DonorAccountNames(ctx, accountIds)
	if err != nil {
		config.LogError(logger, "sponsorAggregation.go", "LiveOneTimeLeaderboard", "DonorAccountNames", organizationId, err)
		return nil, err
	}

	return BuildOneTimeLeaderboard(donations, accountNames, sortMode), nil
}

// ComputeOneTimeLeaderboard recomputes and fully replaces the organization's
// one-time sponsor snapshot. The previous snapshot stays intact if anything
// fails before the replace transaction commits.
func ComputeOneTimeLeaderboard(ctx context.Context, organizationId string) error {
	aggregates, err := LiveOneTimeLeaderboard(ctx, organizationId, models.LeaderboardSortTop)
	if err != nil {
		return err
	}

	rows := make([]*models.SponsorSnapshot, 0, len(aggregates))
	for _, agg := range aggregates {
		rows = append(rows, &models.SponsorSnapshot{
			OrganizationId:  organizationId,
			DonorLabel:      agg.DonorLabel,
			TotalAmount:     agg.TotalAmount,
			PaymentsCount:   agg.PaymentsCount,
			LatestPaymentAt: agg.LatestPaymentAt,
		})
	}
	return ReplaceSponsorSnapshots(ctx, organizationId, rows)
}

// GetOneTimeLeaderboard reads the top-N one-time sponsor rows from the
// snapshot. Zero eligible records is an empty result, not an error.
func GetOneTimeLeaderboard(ctx context.Context, organizationId string, limit int) ([]*models.SponsorSnapshot, error) {
	if limit < 1 {
		limit = models.DefaultPerPage
	}
	if limit > models.LeaderboardMaxPerPage {
		limit = models.LeaderboardMaxPerPage
	}
	rows, err := GetSponsorSnapshots(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
