package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
	"invoicely-backend/internal/store/memstore"
)

type invoiceFixture struct {
	store   *store.Store
	service *InvoiceService
	user    *models.User
	client  *models.Client
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	st := memstore.New()
	ctx := context.Background()

	user := &models.User{Email: "owner@example.com", Username: "owner"}
	if err := st.Users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	client := &models.Client{UserID: user.ID, Name: "Acme", Email: "billing@acme.test"}
	if err := st.Clients.Create(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	svc := NewInvoiceService(st.Clients, st.Invoices, st.Payments, nil)
	return &invoiceFixture{store: st, service: svc, user: user, client: client}
}

func defaultItems() []models.InvoiceItem {
	return []models.InvoiceItem{
		{Description: "Design", Quantity: 2, Rate: 50},
		{Description: "Hosting", Quantity: 1, Rate: 25},
	}
}

func TestCreateInvoiceDraftWithComputedTotals(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, err := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(14 * 24 * time.Hour),
		Items:    defaultItems(),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if inv.Status != models.InvoiceStatusDraft {
		t.Errorf("expected draft, got %s", inv.Status)
	}
	if inv.Subtotal != "125.00" || inv.Total != "125.00" || inv.TaxAmount != "0.00" {
		t.Errorf("totals mismatch: subtotal=%s tax=%s total=%s", inv.Subtotal, inv.TaxAmount, inv.Total)
	}
	if inv.InvoiceNumber != "INV-000001" {
		t.Errorf("expected INV-000001, got %s", inv.InvoiceNumber)
	}
	if inv.Currency != "INR" {
		t.Errorf("expected default currency, got %s", inv.Currency)
	}
	if inv.Items[0].Amount != "100.00" {
		t.Errorf("item amount not computed: %s", inv.Items[0].Amount)
	}
}

func TestCreateInvoiceForeignClient(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	other := &models.User{Email: "other@example.com", Username: "other"}
	if err := f.store.Users.Create(ctx, other); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	_, err := f.service.CreateInvoice(ctx, other.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("foreign client must look missing, got %v", err)
	}
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})

	newItems := []models.InvoiceItem{
		{Description: "Everything", Quantity: 4, Rate: 10, Amount: "999.99"},
	}
	updated, err := f.service.UpdateInvoice(ctx, f.user.ID, inv.ID, &models.UpdateInvoiceRequest{
		Items: &newItems,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Total != "40.00" {
		t.Errorf("expected recomputed total 40.00, got %s", updated.Total)
	}
	if updated.Items[0].Amount != "40.00" {
		t.Errorf("caller-supplied amount must be ignored, got %s", updated.Items[0].Amount)
	}
}

func TestUpdateInvoiceStatusRules(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})

	// The API never marks invoices paid
	paid := models.InvoiceStatusPaid
	_, err := f.service.UpdateInvoice(ctx, f.user.ID, inv.ID, &models.UpdateInvoiceRequest{Status: &paid})
	var serr *errs.InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("API paid transition must be rejected, got %v", err)
	}

	// draft -> sent is fine
	sent := models.InvoiceStatusSent
	updated, err := f.service.UpdateInvoice(ctx, f.user.ID, inv.ID, &models.UpdateInvoiceRequest{Status: &sent})
	if err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if updated.Status != models.InvoiceStatusSent {
		t.Errorf("expected sent, got %s", updated.Status)
	}

	// sent -> draft is not
	draft := models.InvoiceStatusDraft
	_, err = f.service.UpdateInvoice(ctx, f.user.ID, inv.ID, &models.UpdateInvoiceRequest{Status: &draft})
	if !errors.As(err, &serr) {
		t.Fatalf("sent -> draft must be rejected, got %v", err)
	}
}

func TestUpdateInvoiceItemsLockedAfterPaid(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})
	if _, err := f.store.Invoices.MarkPaid(ctx, inv.ID, time.Now()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	newItems := []models.InvoiceItem{{Description: "X", Quantity: 1, Rate: 1}}
	_, err := f.service.UpdateInvoice(ctx, f.user.ID, inv.ID, &models.UpdateInvoiceRequest{Items: &newItems})
	var serr *errs.InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("paid invoice items must be frozen, got %v", err)
	}

	stored, _ := f.store.Invoices.Get(ctx, inv.ID)
	if stored.Total != "125.00" {
		t.Errorf("total must be unchanged, got %s", stored.Total)
	}
}

func TestSendInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})

	sent, err := f.service.SendInvoice(ctx, f.user.ID, inv.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != models.InvoiceStatusSent {
		t.Errorf("expected sent, got %s", sent.Status)
	}

	// Sending twice is a state error
	_, err = f.service.SendInvoice(ctx, f.user.ID, inv.ID)
	var serr *errs.InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("double send must be rejected, got %v", err)
	}
}

func TestLazyOverdueOnRead(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(-24 * time.Hour), // already past due
		Items:    defaultItems(),
	})

	// A late draft stays a draft
	got, err := f.service.GetInvoice(ctx, f.user.ID, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.InvoiceStatusDraft {
		t.Errorf("draft must not become overdue, got %s", got.Status)
	}

	if _, err := f.service.SendInvoice(ctx, f.user.ID, inv.ID); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Now a read derives and persists overdue
	got, err = f.service.GetInvoice(ctx, f.user.ID, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.InvoiceStatusOverdue {
		t.Errorf("expected overdue, got %s", got.Status)
	}

	stored, _ := f.store.Invoices.Get(ctx, inv.ID)
	if stored.Status != models.InvoiceStatusOverdue {
		t.Errorf("overdue must be persisted, stored status is %s", stored.Status)
	}
}

func TestGetInvoiceOwnership(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})

	other := &models.User{Email: "other@example.com", Username: "other"}
	if err := f.store.Users.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	_, err := f.service.GetInvoice(ctx, other.ID, inv.ID)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("foreign invoice must look missing, got %v", err)
	}
}

func TestGetAnalytics(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	mk := func(total string, due time.Time) *models.Invoice {
		items := []models.InvoiceItem{{Description: "W", Quantity: 1, Rate: 0}}
		inv, err := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
			ClientID: f.client.ID,
			DueDate:  due,
			Items:    items,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		// Force totals for the scenario
		if _, err := f.store.Invoices.SetTotals(ctx, inv.ID, items, total, "0.00", total); err != nil {
			t.Fatalf("set totals: %v", err)
		}
		return inv
	}

	future := time.Now().Add(30 * 24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	paidInv := mk("100.00", future)
	if _, err := f.store.Invoices.MarkPaid(ctx, paidInv.ID, time.Now()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	sentInv := mk("40.00", future)
	if _, err := f.service.SendInvoice(ctx, f.user.ID, sentInv.ID); err != nil {
		t.Fatalf("send: %v", err)
	}

	overdueInv := mk("25.50", past)
	if _, err := f.service.SendInvoice(ctx, f.user.ID, overdueInv.ID); err != nil {
		t.Fatalf("send: %v", err)
	}

	mk("999.00", future) // draft, counted but not summed

	analytics, err := f.service.GetAnalytics(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if analytics.TotalRevenue != "100.00" {
		t.Errorf("revenue: expected 100.00, got %s", analytics.TotalRevenue)
	}
	if analytics.PendingAmount != "40.00" {
		t.Errorf("pending: expected 40.00, got %s", analytics.PendingAmount)
	}
	if analytics.OverdueAmount != "25.50" {
		t.Errorf("overdue: expected 25.50, got %s", analytics.OverdueAmount)
	}
	if analytics.TotalInvoices != 4 {
		t.Errorf("expected 4 invoices, got %d", analytics.TotalInvoices)
	}
	if analytics.TotalClients != 1 {
		t.Errorf("expected 1 client, got %d", analytics.TotalClients)
	}
	if len(analytics.RecentInvoices) != 4 {
		t.Errorf("expected 4 recent invoices, got %d", len(analytics.RecentInvoices))
	}
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := f.service.CreateInvoice(ctx, f.user.ID, &models.CreateInvoiceRequest{
		ClientID: f.client.ID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items:    defaultItems(),
	})

	if err := f.service.DeleteInvoice(ctx, f.user.ID, inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := f.service.GetInvoice(ctx, f.user.ID, inv.ID)
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}
