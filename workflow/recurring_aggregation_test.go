package workflow

import (
	"fmt"
	"testing"

	"github.com/mmdatafocus/donations_backend/models"
)

func recurringCharge(id int, amount int64, key string, name string, day int) *models.Donation {
	meta := fmt.Sprintf(`{"is_recurring": true, "recurring_period": "monthly", "saved_payment_method_id": %q}`, key)
	return &models.Donation{
		Id:                id,
		Status:            models.DonationStatusCompleted,
		Amount:            amount,
		DonorName:         name,
		PaymentMethod:     "card",
		CreatedAt:         at(day),
		RecurringMetadata: []byte(meta),
	}
}

func TestGroupSubscriptions_OneGroupPerSavedPaymentMethod(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 1000, "pm_123", "Mg Mg", 1),
		recurringCharge(2, 1000, "pm_123", "Mg Mg", 2),
		recurringCharge(3, 2000, "pm_999", "Mg Mg", 3),
	}
	groups := GroupSubscriptions(donations, nil)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Key != "pm_123" || groups[1].Key != "pm_999" {
		t.Fatalf("keys = %q, %q; want pm_123, pm_999", groups[0].Key, groups[1].Key)
	}
	if groups[0].TotalAmount() != 2000 || groups[1].TotalAmount() != 2000 {
		t.Fatalf("totals = %d, %d; want 2000, 2000", groups[0].TotalAmount(), groups[1].TotalAmount())
	}
}

func TestGroupSubscriptions_SkipsIneligibleDonations(t *testing.T) {
	pending := recurringCharge(1, 500, "pm_1", "A", 1)
	pending.Status = models.DonationStatusPending
	oneTime := &models.Donation{Id: 2, Status: models.DonationStatusCompleted, Amount: 700, CreatedAt: at(2)}

	groups := GroupSubscriptions([]*models.Donation{pending, oneTime}, nil)
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}
}

func TestGroupSubscriptions_RepresentativeAndDisplayOrder(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 100, "pm_1", "A", 1),
		recurringCharge(2, 100, "pm_1", "A", 5),
		recurringCharge(3, 100, "pm_1", "A", 9),
	}
	groups := GroupSubscriptions(donations, nil)
	g := groups[0]
	if g.Representative.Id != 1 {
		t.Fatalf("representative id = %d, want the earliest charge", g.Representative.Id)
	}
	if g.Donations[0].Id != 3 || g.Donations[2].Id != 1 {
		t.Fatalf("display order not newest-first: %d, %d, %d", g.Donations[0].Id, g.Donations[1].Id, g.Donations[2].Id)
	}
}

func TestGroupSubscriptions_LegacyOnlyGroupSurvives(t *testing.T) {
	legacy := []*models.LegacyAutopayment{
		{Id: 1, SubscriptionKey: "legacy_42", Title: "U Ba", Amount: 750, RecurringPeriod: models.RecurringPeriodMonthly},
	}
	groups := GroupSubscriptions(nil, legacy)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Representative != nil || len(g.Donations) != 0 {
		t.Fatalf("legacy-only group unexpectedly holds donations: %+v", g)
	}
	if g.TotalAmount() != 750 {
		t.Fatalf("total = %d, want the legacy amount 750", g.TotalAmount())
	}
	if g.DonorLabel() != "U Ba" {
		t.Fatalf("label = %q, want U Ba", g.DonorLabel())
	}
	if g.Period() != models.RecurringPeriodMonthly {
		t.Fatalf("period = %q, want monthly", g.Period())
	}
}

func TestGroupSubscriptions_LegacyAttachesToMatchingKey(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 300, "pm_7", "", 1),
		recurringCharge(2, 300, "pm_7", "", 2),
	}
	legacy := []*models.LegacyAutopayment{
		{Id: 1, SubscriptionKey: "pm_7", Title: "Daw Mya", Amount: 300},
	}
	groups := GroupSubscriptions(donations, legacy)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1 blended group", len(groups))
	}
	g := groups[0]
	// Charges exist, so the total comes from them, not the legacy amount.
	if g.TotalAmount() != 600 {
		t.Fatalf("total = %d, want 600", g.TotalAmount())
	}
	// The legacy title is the authoritative display name.
	if g.DonorLabel() != "Daw Mya" {
		t.Fatalf("label = %q, want Daw Mya", g.DonorLabel())
	}
}

func TestSubscriptionGroupDonorLabel_BlankLegacyFallsThroughToCharges(t *testing.T) {
	// A linked legacy record with neither title nor phone must not hide the
	// name captured on the current-system charges.
	donations := []*models.Donation{
		recurringCharge(1, 100, "pm_7", "Daw Mya", 1),
	}
	legacy := []*models.LegacyAutopayment{
		{Id: 1, SubscriptionKey: "pm_7", Title: "  ", PhoneNumber: ""},
	}
	groups := GroupSubscriptions(donations, legacy)
	if got := groups[0].DonorLabel(); got != "Daw Mya" {
		t.Fatalf("label = %q, want Daw Mya from the charge", got)
	}

	// Still anonymous when neither source carries a name.
	legacyOnly := []*models.LegacyAutopayment{
		{Id: 2, SubscriptionKey: "legacy_9", Title: "undefined"},
	}
	groups = GroupSubscriptions(nil, legacyOnly)
	if got := groups[0].DonorLabel(); got != models.AnonymousDonorLabel {
		t.Fatalf("label = %q, want anonymous", got)
	}
}

func TestSubscriptionGroupDonorLabel_OldestNonAnonymousName(t *testing.T) {
	first := recurringCharge(1, 100, "pm_1", "First Name", 1)
	renamed := recurringCharge(2, 100, "pm_1", "Second Name", 2)
	groups := GroupSubscriptions([]*models.Donation{first, renamed}, nil)
	if got := groups[0].DonorLabel(); got != "First Name" {
		t.Fatalf("label = %q, want the name captured at subscription time", got)
	}

	anon := recurringCharge(3, 100, "pm_2", "Hidden", 1)
	anon.IsAnonymous = true
	groups = GroupSubscriptions([]*models.Donation{anon}, nil)
	if got := groups[0].DonorLabel(); got != models.AnonymousDonorLabel {
		t.Fatalf("label = %q, want anonymous", got)
	}
}

func TestSubscriptionGroupFirstPaymentAt(t *testing.T) {
	paid := at(4)
	d := recurringCharge(1, 100, "pm_1", "A", 6)
	d.PaidAt = &paid
	groups := GroupSubscriptions([]*models.Donation{d}, nil)
	if got := groups[0].FirstPaymentAt(); got == nil || !got.Equal(paid) {
		t.Fatalf("first payment = %v, want %v", got, paid)
	}

	unpaid := recurringCharge(2, 100, "pm_2", "A", 6)
	groups = GroupSubscriptions([]*models.Donation{unpaid}, nil)
	if got := groups[0].FirstPaymentAt(); got == nil || !got.Equal(at(6)) {
		t.Fatalf("first payment = %v, want creation time fallback %v", got, at(6))
	}

	legacyDate := at(2)
	legacy := []*models.LegacyAutopayment{{Id: 1, SubscriptionKey: "legacy_1", FirstPaymentAt: &legacyDate}}
	groups = GroupSubscriptions(nil, legacy)
	if got := groups[0].FirstPaymentAt(); got == nil || !got.Equal(legacyDate) {
		t.Fatalf("first payment = %v, want legacy date %v", got, legacyDate)
	}
}

func TestBuildRecurringLeaderboard_CountsSubscriptionsNotCharges(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 1000, "pm_123", "Mg Mg", 1),
		recurringCharge(2, 1000, "pm_123", "Mg Mg", 2),
		recurringCharge(3, 2000, "pm_999", "Daw Hla", 3),
	}
	rows := BuildRecurringLeaderboard(GroupSubscriptions(donations, nil))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if r.DonationsCount != 1 {
			t.Errorf("%s: donations_count = %d, want 1 subscription", r.DonorLabel, r.DonationsCount)
		}
		if r.TotalAmount != 2000 {
			t.Errorf("%s: total = %d, want 2000", r.DonorLabel, r.TotalAmount)
		}
	}
}

func TestBuildRecurringLeaderboard_SameLabelTwoKeysCountsTwo(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 500, "pm_a", "Mg Mg", 1),
		recurringCharge(2, 700, "pm_b", "Mg Mg", 2),
	}
	rows := BuildRecurringLeaderboard(GroupSubscriptions(donations, nil))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 merged row", len(rows))
	}
	if rows[0].TotalAmount != 1200 || rows[0].DonationsCount != 2 {
		t.Fatalf("row = %+v, want total 1200 across 2 subscriptions", rows[0])
	}
}

func TestBuildRecurringLeaderboard_OrderAndTiebreak(t *testing.T) {
	donations := []*models.Donation{
		recurringCharge(1, 300, "pm_1", "Bee", 1),
		recurringCharge(2, 300, "pm_2", "Aye", 2),
		recurringCharge(3, 900, "pm_3", "Cee", 3),
	}
	rows := BuildRecurringLeaderboard(GroupSubscriptions(donations, nil))
	want := []string{"Cee", "Aye", "Bee"}
	for i, label := range want {
		if rows[i].DonorLabel != label {
			t.Fatalf("position %d = %q, want %q", i, rows[i].DonorLabel, label)
		}
	}
}
