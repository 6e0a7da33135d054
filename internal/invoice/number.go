package invoice

import "strconv"

// DefaultPrefix is used when business settings carry no invoice prefix.
const DefaultPrefix = "INV-"

// FormatNumber builds a human-facing invoice number from a prefix and a
// sequence value. Plain concatenation, no zero padding.
func FormatNumber(prefix string, seq int64) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + strconv.FormatInt(seq, 10)
}

// FallbackSequence is the sequence value used when no settings counter is
// available: one past the number of invoices the user already has.
func FallbackSequence(existingCount int64) int64 {
	return existingCount + 1
}
