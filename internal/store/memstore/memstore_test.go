package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

func newFixture(t *testing.T) (*store.Store, *models.User, *models.Client) {
	t.Helper()
	st := New()
	ctx := context.Background()

	user := &models.User{Email: "owner@example.com", Username: "owner"}
	if err := st.Users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	client := &models.Client{UserID: user.ID, Name: "Acme", Email: "billing@acme.test"}
	if err := st.Clients.Create(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	return st, user, client
}

func newInvoice(t *testing.T, st *store.Store, user *models.User, client *models.Client, status models.InvoiceStatus) *models.Invoice {
	t.Helper()
	ctx := context.Background()

	number, err := st.Invoices.NextInvoiceNumber(ctx)
	if err != nil {
		t.Fatalf("next invoice number: %v", err)
	}

	inv := &models.Invoice{
		UserID:        user.ID,
		ClientID:      client.ID,
		InvoiceNumber: number,
		Status:        status,
		Currency:      "INR",
		Subtotal:      "100.00",
		TaxAmount:     "0.00",
		Total:         "100.00",
		IssueDate:     time.Now(),
		DueDate:       time.Now().Add(14 * 24 * time.Hour),
		Items: []models.InvoiceItem{
			{Description: "Work", Quantity: 1, Rate: 100, Amount: "100.00"},
		},
	}
	if err := st.Invoices.Create(ctx, inv); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	st, user, client := newFixture(t)

	if user.ID == "" || client.ID == "" {
		t.Fatal("expected generated IDs")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	inv := newInvoice(t, st, user, client, models.InvoiceStatusDraft)
	if inv.ID == "" || inv.CreatedAt.IsZero() {
		t.Error("expected invoice ID and created_at")
	}
}

func TestInvoiceNumbersAreSequential(t *testing.T) {
	st := New()
	ctx := context.Background()

	first, _ := st.Invoices.NextInvoiceNumber(ctx)
	second, _ := st.Invoices.NextInvoiceNumber(ctx)

	if first != "INV-000001" || second != "INV-000002" {
		t.Errorf("expected INV-000001, INV-000002; got %s, %s", first, second)
	}
}

func TestUpdateLeavesIdentityAlone(t *testing.T) {
	st, user, _ := newFixture(t)
	ctx := context.Background()

	name := "New Name"
	updated, err := st.Users.Update(ctx, user.ID, &models.UpdateUserRequest{FirstName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != user.ID || updated.Email != user.Email {
		t.Error("update must not change id or email")
	}
	if !updated.CreatedAt.Equal(user.CreatedAt) {
		t.Error("update must not change created_at")
	}
	if updated.FirstName != "New Name" {
		t.Errorf("expected updated first name, got %q", updated.FirstName)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()
	inv := newInvoice(t, st, user, client, models.InvoiceStatusDraft)

	got, err := st.Invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Status = models.InvoiceStatusCancelled
	got.Items[0].Description = "tampered"

	again, _ := st.Invoices.Get(ctx, inv.ID)
	if again.Status != models.InvoiceStatusDraft {
		t.Error("mutating a returned invoice leaked into the store")
	}
	if again.Items[0].Description != "Work" {
		t.Error("mutating returned items leaked into the store")
	}
}

func TestClientDeleteCascades(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()
	inv := newInvoice(t, st, user, client, models.InvoiceStatusSent)

	payment := &models.Payment{InvoiceID: inv.ID, Amount: "100.00", Currency: "INR", Status: models.PaymentStatusCompleted}
	if err := st.Payments.Create(ctx, payment); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := st.Clients.Delete(ctx, client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	if _, err := st.Invoices.Get(ctx, inv.ID); !isNotFound(err) {
		t.Errorf("expected invoice gone, got %v", err)
	}
	if _, err := st.Payments.Get(ctx, payment.ID); !isNotFound(err) {
		t.Errorf("expected payment gone, got %v", err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()
	inv := newInvoice(t, st, user, client, models.InvoiceStatusDraft)

	if err := st.Users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := st.Clients.Get(ctx, client.ID); !isNotFound(err) {
		t.Errorf("expected client gone, got %v", err)
	}
	if _, err := st.Invoices.Get(ctx, inv.ID); !isNotFound(err) {
		t.Errorf("expected invoice gone, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()

	for _, status := range []models.InvoiceStatus{
		models.InvoiceStatusDraft,
		models.InvoiceStatusSent,
		models.InvoiceStatusOverdue,
	} {
		inv := newInvoice(t, st, user, client, status)
		applied, err := st.Invoices.MarkPaid(ctx, inv.ID, time.Now())
		if err != nil {
			t.Fatalf("MarkPaid from %s: %v", status, err)
		}
		if !applied {
			t.Errorf("MarkPaid from %s: expected applied", status)
		}

		got, _ := st.Invoices.Get(ctx, inv.ID)
		if got.Status != models.InvoiceStatusPaid {
			t.Errorf("expected paid, got %s", got.Status)
		}
		if got.PaidDate == nil {
			t.Error("expected paid_date to be set")
		}
	}
}

func TestMarkPaidNotApplicable(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()

	paid := newInvoice(t, st, user, client, models.InvoiceStatusPaid)
	applied, err := st.Invoices.MarkPaid(ctx, paid.ID, time.Now())
	if err != nil || applied {
		t.Errorf("MarkPaid on paid: expected (false, nil), got (%v, %v)", applied, err)
	}

	cancelled := newInvoice(t, st, user, client, models.InvoiceStatusCancelled)
	applied, err = st.Invoices.MarkPaid(ctx, cancelled.ID, time.Now())
	if err != nil || applied {
		t.Errorf("MarkPaid on cancelled: expected (false, nil), got (%v, %v)", applied, err)
	}

	if _, err := st.Invoices.MarkPaid(ctx, "missing", time.Now()); !isNotFound(err) {
		t.Errorf("MarkPaid on missing: expected NotFoundError, got %v", err)
	}
}

func TestMarkPaidConcurrentSingleWinner(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()
	inv := newInvoice(t, st, user, client, models.InvoiceStatusSent)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := st.Invoices.MarkPaid(ctx, inv.ID, time.Now())
			if err != nil {
				t.Errorf("MarkPaid: %v", err)
				return
			}
			results <- applied
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for applied := range results {
		if applied {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestGetByOrderID(t *testing.T) {
	st, user, client := newFixture(t)
	ctx := context.Background()
	inv := newInvoice(t, st, user, client, models.InvoiceStatusSent)

	if err := st.Invoices.SetGatewayOrder(ctx, inv.ID, "order_abc123"); err != nil {
		t.Fatalf("set gateway order: %v", err)
	}

	got, err := st.Invoices.GetByOrderID(ctx, "order_abc123")
	if err != nil {
		t.Fatalf("get by order id: %v", err)
	}
	if got.ID != inv.ID {
		t.Errorf("expected invoice %s, got %s", inv.ID, got.ID)
	}

	// An empty order ID must not match invoices that have no order
	if _, err := st.Invoices.GetByOrderID(ctx, ""); !isNotFound(err) {
		t.Errorf("expected NotFoundError for empty order id, got %v", err)
	}
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}
