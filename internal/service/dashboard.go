package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-analyze/charts"
	"github.com/invoicepro/server/internal/currency"
	"github.com/invoicepro/server/internal/invoice"
	"github.com/invoicepro/server/internal/models"
	"github.com/shopspring/decimal"
)

// Report periods.
const (
	PeriodAll        = "all"
	PeriodLast30Days = "last-30-days"
	PeriodLast3M     = "last-3-months"
	PeriodLast6M     = "last-6-months"
	PeriodLastYear   = "last-year"
)

// GetDashboard folds the user's invoices and clients into dashboard metrics.
// Listing goes through the service so stored statuses are refreshed first.
func (s *DefaultService) GetDashboard(ctx context.Context, userID string) (*invoice.Metrics, error) {
	invoices, err := s.ListInvoices(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.ListClients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}

	metrics := invoice.Aggregate(invoices, clients, time.Now())
	return &metrics, nil
}

// RenderSummaryChart renders the invoice summary breakdown as a PNG donut.
func (s *DefaultService) RenderSummaryChart(ctx context.Context, userID string) ([]byte, error) {
	metrics, err := s.GetDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	if metrics.Summary.Invoiced.IsZero() {
		return nil, notFound("no invoices to chart")
	}

	values := []float64{
		metrics.Summary.Invoiced.InexactFloat64(),
		metrics.Summary.Received.InexactFloat64(),
		metrics.Summary.Outstanding.InexactFloat64(),
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Invoice Summary",
		}),
		charts.LegendLabelsOptionFunc([]string{"Invoiced", "Received", "Outstanding"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// periodRange converts a named report period into an inclusive issue-date
// range. An empty range means no filtering.
func periodRange(period string, now time.Time) (string, string) {
	var from time.Time
	switch period {
	case PeriodLast30Days:
		from = now.AddDate(0, 0, -30)
	case PeriodLast3M:
		from = now.AddDate(0, -2, 0)
	case PeriodLast6M:
		from = now.AddDate(0, -5, 0)
	case PeriodLastYear:
		from = now.AddDate(-1, 0, 0)
	default:
		return "", ""
	}
	return from.Format(invoice.DateLayout), now.Format(invoice.DateLayout)
}

// GetReport returns the user's invoices filtered by period, status and
// client, with the filtered total. An unknown client filter matches nothing
// being filtered, mirroring the lenient behavior of the original report view.
// When targetCurrency names a supported currency, the total is additionally
// converted into it (per-invoice, honoring each invoice's own currency) and
// formatted for display.
func (s *DefaultService) GetReport(ctx context.Context, userID, period, status, clientID, targetCurrency string) (*models.ReportResponse, error) {
	startDate, endDate := periodRange(period, time.Now())

	invoices, err := s.ListInvoices(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	clientName := ""
	if clientID != "" && clientID != "all" {
		client, err := s.repo.GetClient(ctx, userID, clientID)
		if err != nil {
			return nil, fmt.Errorf("error getting client: %w", err)
		}
		if client != nil {
			clientName = client.DisplayName()
		}
	}

	filtered := make([]models.Invoice, 0, len(invoices))
	total := decimal.Zero
	for _, inv := range invoices {
		if status != "" && status != "All" && inv.Status != status {
			continue
		}
		if clientName != "" && inv.ClientName != clientName {
			continue
		}
		filtered = append(filtered, inv)
		total = total.Add(inv.Amount)
	}

	resp := &models.ReportResponse{
		Invoices:    filtered,
		Count:       len(filtered),
		TotalAmount: total,
	}

	if target, ok := currency.Lookup(targetCurrency); ok {
		converted := decimal.Zero
		for _, inv := range filtered {
			converted = converted.Add(currency.Convert(inv.Amount, inv.Currency, target.Code))
		}
		resp.Currency = target.Code
		resp.ConvertedTotal = &converted
		resp.FormattedTotal = currency.Format(converted, target.Code)
	}

	return resp, nil
}
