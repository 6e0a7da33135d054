package invoice

import (
	"sort"
	"time"

	"github.com/invoicepro/server/internal/models"
	"github.com/shopspring/decimal"
)

// Activity feed actions.
const (
	ActionPaymentReceived = "Payment received"
	ActionInvoiceModified = "Invoice modified"
	ActionInvoiceCreated  = "Invoice created"
)

const recentActivityLimit = 5

// Summary is the three-way invoice breakdown.
type Summary struct {
	Invoiced    decimal.Decimal `json:"invoiced"`
	Received    decimal.Decimal `json:"received"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// MonthlyTotals is one year-month bucket of the invoiced/received series.
type MonthlyTotals struct {
	Month    string          `json:"month"` // YYYY-MM
	Invoiced decimal.Decimal `json:"invoiced"`
	Received decimal.Decimal `json:"received"`
}

// Receivable is the open balance owed by one client.
type Receivable struct {
	Client string          `json:"client"`
	Amount decimal.Decimal `json:"amount"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Date     string          `json:"date"`
	Action   string          `json:"action"`
	Client   string          `json:"client"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

// Metrics is everything the dashboard and reports need, computed in one fold.
type Metrics struct {
	Outstanding       decimal.Decimal `json:"outstanding"`
	Overdue           decimal.Decimal `json:"overdue"`
	CollectedThisYear decimal.Decimal `json:"collectedThisYear"`
	ClientCount       int             `json:"clientCount"`
	Summary           Summary         `json:"summary"`
	Monthly           []MonthlyTotals `json:"monthly"`
	Receivables       []Receivable    `json:"receivables"`
	RecentActivity    []Activity      `json:"recentActivity"`
}

// pastDue reports whether an invoice that is still Pending or Unpaid has a
// due date before now. This check is applied on top of the stored status so
// records whose status has not been refreshed yet still count as overdue.
func pastDue(inv *models.Invoice, now time.Time) bool {
	if inv.Status != models.StatusPending && inv.Status != models.StatusUnpaid {
		return false
	}
	due, ok := ParseDate(inv.DueDate)
	return ok && due.Before(now)
}

// Aggregate folds a user's invoices and clients into dashboard metrics. It is
// a pure function of its inputs: running it twice yields identical results.
func Aggregate(invoices []models.Invoice, clients []models.Client, now time.Time) Metrics {
	m := Metrics{
		Outstanding:       decimal.Zero,
		Overdue:           decimal.Zero,
		CollectedThisYear: decimal.Zero,
		ClientCount:       len(clients),
		Summary: Summary{
			Invoiced:    decimal.Zero,
			Received:    decimal.Zero,
			Outstanding: decimal.Zero,
		},
	}

	monthly := make(map[string]*MonthlyTotals)
	receivables := make(map[string]int) // client name -> index, insertion ordered via slice

	for i := range invoices {
		inv := &invoices[i]
		amount := inv.Amount

		m.Summary.Invoiced = m.Summary.Invoiced.Add(amount)

		switch inv.Status {
		case models.StatusUnpaid, models.StatusOverdue:
			m.Outstanding = m.Outstanding.Add(amount)

			idx, seen := receivables[inv.ClientName]
			if !seen {
				receivables[inv.ClientName] = len(m.Receivables)
				m.Receivables = append(m.Receivables, Receivable{Client: inv.ClientName, Amount: amount})
			} else {
				m.Receivables[idx].Amount = m.Receivables[idx].Amount.Add(amount)
			}
		case models.StatusPaid:
			m.Summary.Received = m.Summary.Received.Add(amount)
			if issue, ok := ParseDate(inv.IssueDate); ok && issue.Year() == now.Year() {
				m.CollectedThisYear = m.CollectedThisYear.Add(amount)
			}
		}

		if inv.Status == models.StatusOverdue || pastDue(inv, now) {
			m.Overdue = m.Overdue.Add(amount)
		}

		// Invoices with unparseable issue dates are left out of the series.
		if issue, ok := ParseDate(inv.IssueDate); ok {
			key := issue.Format("2006-01")
			bucket, exists := monthly[key]
			if !exists {
				bucket = &MonthlyTotals{Month: key, Invoiced: decimal.Zero, Received: decimal.Zero}
				monthly[key] = bucket
			}
			bucket.Invoiced = bucket.Invoiced.Add(amount)
			if inv.Status == models.StatusPaid {
				bucket.Received = bucket.Received.Add(amount)
			}
		}
	}

	m.Summary.Outstanding = m.Outstanding

	m.Monthly = make([]MonthlyTotals, 0, len(monthly))
	for _, bucket := range monthly {
		m.Monthly = append(m.Monthly, *bucket)
	}
	sort.Slice(m.Monthly, func(i, j int) bool { return m.Monthly[i].Month < m.Monthly[j].Month })

	m.RecentActivity = recentActivity(invoices)

	return m
}

// eventTime is the timestamp an invoice sorts by in the activity feed: the
// update timestamp, falling back to the issue date. Invoices with neither
// sort last.
func eventTime(inv *models.Invoice) time.Time {
	if !inv.UpdatedAt.IsZero() {
		return inv.UpdatedAt
	}
	if issue, ok := ParseDate(inv.IssueDate); ok {
		return issue
	}
	return time.Time{}
}

func activityAction(inv *models.Invoice) string {
	if inv.Status == models.StatusPaid {
		return ActionPaymentReceived
	}
	if !inv.UpdatedAt.IsZero() && inv.UpdatedAt.After(inv.CreatedAt) {
		return ActionInvoiceModified
	}
	return ActionInvoiceCreated
}

func recentActivity(invoices []models.Invoice) []Activity {
	sorted := make([]models.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return eventTime(&sorted[i]).After(eventTime(&sorted[j]))
	})

	if len(sorted) > recentActivityLimit {
		sorted = sorted[:recentActivityLimit]
	}

	feed := make([]Activity, 0, len(sorted))
	for i := range sorted {
		inv := &sorted[i]
		date := inv.IssueDate
		if !inv.UpdatedAt.IsZero() {
			date = inv.UpdatedAt.Format(time.RFC3339)
		}
		feed = append(feed, Activity{
			Date:     date,
			Action:   activityAction(inv),
			Client:   inv.ClientName,
			Amount:   inv.Amount,
			Currency: inv.Currency,
		})
	}
	return feed
}
