package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"invoicely-backend/internal/billing"
	"invoicely-backend/internal/cache"
	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

const (
	defaultCurrency   = "INR"
	analyticsCacheTTL = 2 * time.Minute
	recentLimit       = 5
)

type InvoiceService struct {
	Clients  store.ClientStore
	Invoices store.InvoiceStore
	Payments store.PaymentStore
	Cache    *cache.Cache
}

func NewInvoiceService(clients store.ClientStore, invoices store.InvoiceStore, payments store.PaymentStore, c *cache.Cache) *InvoiceService {
	return &InvoiceService{
		Clients:  clients,
		Invoices: invoices,
		Payments: payments,
		Cache:    c,
	}
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, userID string, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if req.ClientID == "" {
		return nil, errs.Validation("client_id is required")
	}
	if req.DueDate.IsZero() {
		return nil, errs.Validation("due_date is required")
	}

	client, err := s.Clients.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client.UserID != userID {
		return nil, errs.NotFound("client")
	}

	items, totals, err := billing.CalculateTotals(req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.Invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	invoice := &models.Invoice{
		UserID:        userID,
		ClientID:      req.ClientID,
		InvoiceNumber: number,
		Status:        models.InvoiceStatusDraft,
		Currency:      currency,
		Subtotal:      totals.SubtotalString(),
		TaxAmount:     totals.TaxAmountString(),
		Total:         totals.TotalString(),
		IssueDate:     issueDate,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Items:         items,
	}

	if err := s.Invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, analyticsKey(userID))
	return invoice, nil
}

// getOwned loads an invoice and hides it from non-owners
func (s *InvoiceService) getOwned(ctx context.Context, userID, id string) (*models.Invoice, error) {
	invoice, err := s.Invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, errs.NotFound("invoice")
	}
	return invoice, nil
}

// GetInvoice returns one invoice, applying the lazy overdue transition
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id string) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.applyOverdue(ctx, invoice), nil
}

// ListInvoices returns the user's invoices, newest first, with lazy
// overdue applied to each
func (s *InvoiceService) ListInvoices(ctx context.Context, userID string) ([]*models.Invoice, error) {
	invoices, err := s.Invoices.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		invoices[i] = s.applyOverdue(ctx, inv)
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

// applyOverdue persists sent -> overdue when the due date has passed.
// A write failure only degrades the persisted copy; the returned invoice
// still reports overdue.
func (s *InvoiceService) applyOverdue(ctx context.Context, invoice *models.Invoice) *models.Invoice {
	if !billing.IsOverdue(invoice, time.Now()) {
		return invoice
	}

	status := models.InvoiceStatusOverdue
	updated, err := s.Invoices.Update(ctx, invoice.ID, &models.UpdateInvoiceRequest{Status: &status})
	if err != nil {
		log.Printf("[InvoiceService] failed to persist overdue status for invoice %s: %v", invoice.ID, err)
		invoice.Status = models.InvoiceStatusOverdue
		return invoice
	}
	return updated
}

func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != invoice.Status {
		if err := billing.ValidateTransition(invoice.Status, *req.Status); err != nil {
			return nil, err
		}
	}

	if req.Items != nil {
		if !billing.IsEditable(invoice.Status) {
			return nil, errs.InvalidState("line items of a %s invoice cannot be changed", invoice.Status)
		}

		items, totals, err := billing.CalculateTotals(*req.Items)
		if err != nil {
			return nil, err
		}
		if _, err := s.Invoices.SetTotals(ctx, id, items, totals.SubtotalString(), totals.TaxAmountString(), totals.TotalString()); err != nil {
			return nil, err
		}
		req = &models.UpdateInvoiceRequest{
			Status:    req.Status,
			IssueDate: req.IssueDate,
			DueDate:   req.DueDate,
			Notes:     req.Notes,
		}
	}

	updated, err := s.Invoices.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, analyticsKey(userID))
	return updated, nil
}

// SendInvoice moves a draft invoice to sent
func (s *InvoiceService) SendInvoice(ctx context.Context, userID, id string) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := billing.ValidateTransition(invoice.Status, models.InvoiceStatusSent); err != nil {
		return nil, err
	}

	status := models.InvoiceStatusSent
	updated, err := s.Invoices.Update(ctx, id, &models.UpdateInvoiceRequest{Status: &status})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, analyticsKey(userID))
	return updated, nil
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, analyticsKey(userID))
	return nil
}

func analyticsKey(userID string) string {
	return "analytics:" + userID
}

// GetAnalytics aggregates the user's dashboard figures. The result is
// cached briefly; every invoice mutation invalidates the key.
func (s *InvoiceService) GetAnalytics(ctx context.Context, userID string) (*models.Analytics, error) {
	var cached models.Analytics
	if s.Cache.GetJSON(ctx, analyticsKey(userID), &cached) {
		return &cached, nil
	}

	invoices, err := s.ListInvoices(ctx, userID)
	if err != nil {
		return nil, err
	}
	clients, err := s.Clients.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	pending := decimal.Zero
	overdue := decimal.Zero

	for _, inv := range invoices {
		total, err := decimal.NewFromString(inv.Total)
		if err != nil {
			log.Printf("[InvoiceService] invoice %s has malformed total %q", inv.ID, inv.Total)
			continue
		}
		switch inv.Status {
		case models.InvoiceStatusPaid:
			revenue = revenue.Add(total)
		case models.InvoiceStatusSent:
			pending = pending.Add(total)
		case models.InvoiceStatusOverdue:
			overdue = overdue.Add(total)
		}
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})

	analytics := &models.Analytics{
		TotalRevenue:   revenue.StringFixed(2),
		PendingAmount:  pending.StringFixed(2),
		OverdueAmount:  overdue.StringFixed(2),
		TotalInvoices:  len(invoices),
		TotalClients:   len(clients),
		RecentInvoices: firstInvoices(invoices, recentLimit),
		RecentClients:  firstClients(clients, recentLimit),
	}

	s.Cache.SetJSON(ctx, analyticsKey(userID), analytics, analyticsCacheTTL)
	return analytics, nil
}

func firstInvoices(invoices []*models.Invoice, n int) []*models.Invoice {
	if len(invoices) < n {
		n = len(invoices)
	}
	return invoices[:n]
}

func firstClients(clients []*models.Client, n int) []*models.Client {
	if len(clients) < n {
		n = len(clients)
	}
	return clients[:n]
}
