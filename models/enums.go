package models

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "Pending"
	DonationStatusCompleted DonationStatus = "Completed"
	DonationStatusFailed    DonationStatus = "Failed"
	DonationStatusRefunded  DonationStatus = "Refunded"
	DonationStatusExpired   DonationStatus = "Expired"
)

type RecurringPeriod string

const (
	RecurringPeriodDaily   RecurringPeriod = "daily"
	RecurringPeriodWeekly  RecurringPeriod = "weekly"
	RecurringPeriodMonthly RecurringPeriod = "monthly"
)

func (p RecurringPeriod) Valid() bool {
	switch p {
	case RecurringPeriodDaily, RecurringPeriodWeekly, RecurringPeriodMonthly:
		return true
	}
	return false
}

// Label returns the display label for autopayment listing rows.
func (p RecurringPeriod) Label() string {
	switch p {
	case RecurringPeriodDaily:
		return "Every day"
	case RecurringPeriodWeekly:
		return "Every week"
	case RecurringPeriodMonthly:
		return "Every month"
	}
	return ""
}

type LeaderboardSort string

const (
	// LeaderboardSortTop orders by total amount descending.
	LeaderboardSortTop LeaderboardSort = "top"
	// LeaderboardSortRecent orders by latest payment descending.
	LeaderboardSortRecent LeaderboardSort = "recent"
)

func ParseLeaderboardSort(raw string) LeaderboardSort {
	if LeaderboardSort(raw) == LeaderboardSortRecent {
		return LeaderboardSortRecent
	}
	return LeaderboardSortTop
}
