package models

import (
	"encoding/json"
	"strings"
)

// RecurringInfo is the strict form of the gateway's recurring metadata bag.
// The bag historically carried several truthy spellings (true, "true", "1", 1)
// and free-form period strings; they are normalized here exactly once so
// downstream logic never re-parses raw variants.
type RecurringInfo struct {
	IsRecurring          bool
	Period               RecurringPeriod
	SavedPaymentMethodId string
}

// ParseRecurringMetadata parses the raw metadata bag. Malformed input is not
// an error: the record is simply not recurring-eligible (zero value).
func ParseRecurringMetadata(raw []byte) RecurringInfo {
	var info RecurringInfo
	if len(raw) == 0 {
		return info
	}

	var bag map[string]any
	if err := json.Unmarshal(raw, &bag); err != nil {
		return info
	}

	info.IsRecurring = truthy(bag["is_recurring"])

	if s, ok := bag["recurring_period"].(string); ok {
		period := RecurringPeriod(strings.ToLower(strings.TrimSpace(s)))
		if period.Valid() {
			info.Period = period
		}
	}

	if s, ok := bag["saved_payment_method_id"].(string); ok {
		info.SavedPaymentMethodId = s
	}

	return info
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t == 1
	case json.Number:
		return t.String() == "1"
	}
	return false
}

// SubscriptionKey identifies the recurring payment method behind this
// donation; repeated charges against one saved payment method share one key.
// Returns "" when the donation is not recurring-eligible: it must be
// Completed, flagged recurring (or carry a period), and reference a saved
// payment method. The saved payment method is the only stable handle across
// charge attempts; flag or period alone do not identify which subscription.
func (d *Donation) SubscriptionKey() string {
	if d.Status != DonationStatusCompleted {
		return ""
	}
	info := ParseRecurringMetadata(d.RecurringMetadata)
	if !info.IsRecurring && info.Period == "" {
		return ""
	}
	return info.SavedPaymentMethodId
}

// RecurringPeriodOf returns the parsed period ("" when absent).
func (d *Donation) RecurringPeriodOf() RecurringPeriod {
	return ParseRecurringMetadata(d.RecurringMetadata).Period
}
