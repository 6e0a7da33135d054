package invoice

import (
	"time"

	"github.com/invoicepro/server/internal/models"
)

// ResolveStatus derives the effective status of an invoice from its stored
// status and due date. Paid is terminal and never overridden. Otherwise the
// due date is compared to now at day granularity: strictly past due days are
// Overdue, everything else (including unparseable due dates) is Unpaid.
func ResolveStatus(storedStatus, dueDate string, now time.Time) string {
	if storedStatus == models.StatusPaid {
		return models.StatusPaid
	}
	due, ok := ParseDate(dueDate)
	if !ok {
		return models.StatusUnpaid
	}
	if truncateToDay(now).After(truncateToDay(due)) {
		return models.StatusOverdue
	}
	return models.StatusUnpaid
}
