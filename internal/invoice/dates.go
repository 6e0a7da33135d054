// Package invoice contains the pure invoice lifecycle core: status
// resolution, number formatting and dashboard aggregation. Everything here is
// deterministic given an explicit "now" and never touches storage.
package invoice

import "time"

// DateLayout is the canonical date form invoices carry.
const DateLayout = "2006-01-02"

// ParseDate parses an invoice date string. Bare dates and full RFC 3339
// timestamps are accepted; anything else reports false. Malformed dates are
// routine in stored data and must never abort a computation.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
