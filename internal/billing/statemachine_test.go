package billing

import (
	"errors"
	"testing"
	"time"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

func TestValidateTransitionAllowed(t *testing.T) {
	allowed := []struct{ from, to models.InvoiceStatus }{
		{models.InvoiceStatusDraft, models.InvoiceStatusSent},
		{models.InvoiceStatusDraft, models.InvoiceStatusCancelled},
		{models.InvoiceStatusSent, models.InvoiceStatusOverdue},
		{models.InvoiceStatusSent, models.InvoiceStatusCancelled},
		{models.InvoiceStatusOverdue, models.InvoiceStatusCancelled},
	}

	for _, tc := range allowed {
		if err := ValidateTransition(tc.from, tc.to); err != nil {
			t.Errorf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
	}
}

func TestValidateTransitionRejected(t *testing.T) {
	rejected := []struct{ from, to models.InvoiceStatus }{
		{models.InvoiceStatusDraft, models.InvoiceStatusOverdue},
		{models.InvoiceStatusSent, models.InvoiceStatusDraft},
		{models.InvoiceStatusPaid, models.InvoiceStatusSent},
		{models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
		{models.InvoiceStatusCancelled, models.InvoiceStatusSent},
		{models.InvoiceStatusCancelled, models.InvoiceStatusDraft},
	}

	for _, tc := range rejected {
		err := ValidateTransition(tc.from, tc.to)
		var serr *errs.InvalidStateError
		if !errors.As(err, &serr) {
			t.Errorf("%s -> %s should be rejected with InvalidStateError, got %v", tc.from, tc.to, err)
		}
	}
}

func TestValidateTransitionNeverAllowsPaid(t *testing.T) {
	// The paid transition belongs to payment reconciliation alone
	from := []models.InvoiceStatus{
		models.InvoiceStatusDraft,
		models.InvoiceStatusSent,
		models.InvoiceStatusOverdue,
		models.InvoiceStatusCancelled,
	}

	for _, f := range from {
		err := ValidateTransition(f, models.InvoiceStatusPaid)
		var serr *errs.InvalidStateError
		if !errors.As(err, &serr) {
			t.Errorf("%s -> paid should be rejected, got %v", f, err)
		}
	}
}

func TestIsPayable(t *testing.T) {
	payable := map[models.InvoiceStatus]bool{
		models.InvoiceStatusDraft:     true,
		models.InvoiceStatusSent:      true,
		models.InvoiceStatusOverdue:   true,
		models.InvoiceStatusPaid:      false,
		models.InvoiceStatusCancelled: false,
	}

	for status, want := range payable {
		if got := IsPayable(status); got != want {
			t.Errorf("IsPayable(%s): expected %v, got %v", status, want, got)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	sentPast := &models.Invoice{Status: models.InvoiceStatusSent, DueDate: now.Add(-24 * time.Hour)}
	if !IsOverdue(sentPast, now) {
		t.Error("sent invoice past due date should be overdue")
	}

	sentFuture := &models.Invoice{Status: models.InvoiceStatusSent, DueDate: now.Add(24 * time.Hour)}
	if IsOverdue(sentFuture, now) {
		t.Error("sent invoice before due date should not be overdue")
	}

	// Only sent invoices become overdue; a late draft stays a draft
	draftPast := &models.Invoice{Status: models.InvoiceStatusDraft, DueDate: now.Add(-24 * time.Hour)}
	if IsOverdue(draftPast, now) {
		t.Error("draft invoice should never be overdue")
	}

	paidPast := &models.Invoice{Status: models.InvoiceStatusPaid, DueDate: now.Add(-24 * time.Hour)}
	if IsOverdue(paidPast, now) {
		t.Error("paid invoice should never be overdue")
	}
}
