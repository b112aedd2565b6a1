package workflow

import (
	"testing"
	"time"

	"github.com/mmdatafocus/donations_backend/models"
)

// NOTE: These tests are intentionally DB-free. They validate the aggregation
// semantics on in-memory records; loading and snapshot replacement are thin
// and covered by integration runs against MySQL.

func intPtr(v int) *int { return &v }

func at(day int) time.Time {
	return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
}

func completed(id int, amount int64, email string, day int) *models.Donation {
	return &models.Donation{
		Id:         id,
		Status:     models.DonationStatusCompleted,
		Amount:     amount,
		DonorEmail: email,
		CreatedAt:  at(day),
	}
}

func TestBuildOneTimeLeaderboard_MergesByIdentityAndBucketsAnonymous(t *testing.T) {
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusCompleted, Amount: 500, DonorEmail: "a@x.com", DonorName: "Aye Aye", CreatedAt: at(1)},
		{Id: 2, Status: models.DonationStatusCompleted, Amount: 300, DonorEmail: "A@X.com", DonorName: "Aye Aye", CreatedAt: at(2)},
		{Id: 3, Status: models.DonationStatusCompleted, Amount: 100, CreatedAt: at(3)},
	}

	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}
	if rows[0].DonorLabel != "Aye Aye" || rows[0].TotalAmount != 800 || rows[0].PaymentsCount != 2 {
		t.Fatalf("top row = %+v, want Aye Aye / 800 / 2", rows[0])
	}
	if rows[1].DonorLabel != models.AnonymousDonorLabel || rows[1].TotalAmount != 100 || rows[1].PaymentsCount != 1 {
		t.Fatalf("anonymous row = %+v, want %s / 100 / 1", rows[1], models.AnonymousDonorLabel)
	}
}

func TestBuildOneTimeLeaderboard_NamelessEmailDonorStaysDistinct(t *testing.T) {
	// An email-identified donor with no name must keep their own row; the
	// anonymous bucket holds only donors with no identifying contact at all.
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusCompleted, Amount: 500, DonorEmail: "a@x.com", CreatedAt: at(1)},
		{Id: 2, Status: models.DonationStatusCompleted, Amount: 300, DonorEmail: "A@X.com", CreatedAt: at(2)},
		{Id: 3, Status: models.DonationStatusCompleted, Amount: 100, CreatedAt: at(3)},
	}

	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (email group + anonymous): %+v", len(rows), rows)
	}
	if rows[0].DonorLabel != "a@x.com" || rows[0].TotalAmount != 800 || rows[0].PaymentsCount != 2 {
		t.Fatalf("top row = %+v, want a@x.com / 800 / 2", rows[0])
	}
	if rows[1].DonorLabel != models.AnonymousDonorLabel || rows[1].TotalAmount != 100 {
		t.Fatalf("second row = %+v, want %s / 100", rows[1], models.AnonymousDonorLabel)
	}
}

func TestBuildOneTimeLeaderboard_NamelessPhoneAndAccountDonors(t *testing.T) {
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusCompleted, Amount: 200, DonorPhone: "0912345678", CreatedAt: at(1)},
		{Id: 2, Status: models.DonationStatusCompleted, Amount: 300, DonorAccountId: intPtr(42), CreatedAt: at(2)},
		{Id: 3, Status: models.DonationStatusCompleted, Amount: 100, CreatedAt: at(3)},
	}
	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 distinct rows: %+v", len(rows), rows)
	}
	labels := map[string]int64{}
	for _, r := range rows {
		labels[r.DonorLabel] = r.TotalAmount
	}
	if labels["0912345678"] != 200 || labels["Donor 42"] != 300 || labels[models.AnonymousDonorLabel] != 100 {
		t.Fatalf("unexpected labels: %+v", labels)
	}
}

func TestBuildOneTimeLeaderboard_SkipsNonCompleted(t *testing.T) {
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusPending, Amount: 900, DonorEmail: "a@x.com", DonorName: "A", CreatedAt: at(1)},
		{Id: 2, Status: models.DonationStatusFailed, Amount: 900, DonorEmail: "a@x.com", DonorName: "A", CreatedAt: at(2)},
		{Id: 3, Status: models.DonationStatusCompleted, Amount: 50, DonorEmail: "a@x.com", DonorName: "A", CreatedAt: at(3)},
	}
	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 1 || rows[0].TotalAmount != 50 || rows[0].PaymentsCount != 1 {
		t.Fatalf("got %+v, want single row totaling 50", rows)
	}
}

func TestBuildOneTimeLeaderboard_ExcludesNonPositiveTotals(t *testing.T) {
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusCompleted, Amount: 400, DonorEmail: "a@x.com", DonorName: "A", CreatedAt: at(1)},
		{Id: 2, Status: models.DonationStatusCompleted, Amount: -400, DonorEmail: "a@x.com", DonorName: "A", CreatedAt: at(2)},
		{Id: 3, Status: models.DonationStatusCompleted, Amount: 100, DonorEmail: "b@x.com", DonorName: "B", CreatedAt: at(3)},
	}
	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 1 || rows[0].DonorLabel != "B" {
		t.Fatalf("got %+v, want only B", rows)
	}
}

func TestBuildOneTimeLeaderboard_ConservesAmounts(t *testing.T) {
	donations := []*models.Donation{
		completed(1, 120, "a@x.com", 1),
		completed(2, 80, "a@x.com", 2),
		completed(3, 300, "b@x.com", 3),
		completed(4, 45, "", 4),
		completed(5, 55, "", 5),
	}
	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)

	var rowTotal int64
	var rowCount int
	for _, r := range rows {
		rowTotal += r.TotalAmount
		rowCount += r.PaymentsCount
	}
	if rowTotal != 600 {
		t.Fatalf("row totals sum to %d, want 600", rowTotal)
	}
	if rowCount != len(donations) {
		t.Fatalf("row counts sum to %d, want %d", rowCount, len(donations))
	}
}

func TestBuildOneTimeLeaderboard_AccountNameWinsOverStoredName(t *testing.T) {
	donations := []*models.Donation{
		{Id: 1, Status: models.DonationStatusCompleted, Amount: 100, DonorAccountId: intPtr(7), DonorName: "Old Name", CreatedAt: at(1)},
	}
	rows := BuildOneTimeLeaderboard(donations, map[int]string{7: "Current Name"}, models.LeaderboardSortTop)
	if len(rows) != 1 || rows[0].DonorLabel != "Current Name" {
		t.Fatalf("got %+v, want label Current Name", rows)
	}

	// A donation marked anonymous contributes no stored name.
	donations = []*models.Donation{
		{Id: 2, Status: models.DonationStatusCompleted, Amount: 100, DonorName: "Should Hide", IsAnonymous: true, CreatedAt: at(1)},
	}
	rows = BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	if len(rows) != 1 || rows[0].DonorLabel != models.AnonymousDonorLabel {
		t.Fatalf("got %+v, want anonymous label", rows)
	}
}

func TestBuildOneTimeLeaderboard_TopOrderWithLabelTiebreak(t *testing.T) {
	donations := []*models.Donation{
		completed(1, 200, "b@x.com", 1),
		completed(2, 200, "a@x.com", 2),
		completed(3, 500, "c@x.com", 3),
	}
	donations[0].DonorName = "Bee"
	donations[1].DonorName = "Aye"
	donations[2].DonorName = "Cee"

	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	want := []string{"Cee", "Aye", "Bee"}
	for i, label := range want {
		if rows[i].DonorLabel != label {
			t.Fatalf("position %d = %q, want %q (rows %+v)", i, rows[i].DonorLabel, label, rows)
		}
	}
}

func TestBuildOneTimeLeaderboard_RecentOrder(t *testing.T) {
	donations := []*models.Donation{
		completed(1, 900, "a@x.com", 1),
		completed(2, 100, "b@x.com", 20),
	}
	donations[0].DonorName = "Aye"
	donations[1].DonorName = "Bee"

	rows := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortRecent)
	if rows[0].DonorLabel != "Bee" {
		t.Fatalf("recent sort ranked %q first, want Bee", rows[0].DonorLabel)
	}
	if !rows[0].LatestPaymentAt.Equal(at(20)) {
		t.Fatalf("latest payment = %v, want %v", rows[0].LatestPaymentAt, at(20))
	}
}

func TestBuildOneTimeLeaderboard_DeterministicAcrossRuns(t *testing.T) {
	donations := []*models.Donation{
		completed(1, 100, "a@x.com", 1),
		completed(2, 100, "b@x.com", 1),
		completed(3, 100, "c@x.com", 1),
		completed(4, 100, "", 1),
	}
	donations[0].DonorName = "A"
	donations[1].DonorName = "B"
	donations[2].DonorName = "C"

	first := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
	for run := 0; run < 10; run++ {
		again := BuildOneTimeLeaderboard(donations, nil, models.LeaderboardSortTop)
		if len(again) != len(first) {
			t.Fatalf("run %d: row count changed", run)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("run %d: row %d changed: %+v vs %+v", run, i, again[i], first[i])
			}
		}
	}
}
