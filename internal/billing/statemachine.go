package billing

import (
	"time"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

// userTransitions are the status changes a caller may request through the
// API. The transition into paid is deliberately absent: only the payment
// reconciliation path applies it, via the store's conditional mark-paid.
var userTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusDraft:   {models.InvoiceStatusSent, models.InvoiceStatusCancelled},
	models.InvoiceStatusSent:    {models.InvoiceStatusOverdue, models.InvoiceStatusCancelled},
	models.InvoiceStatusOverdue: {models.InvoiceStatusCancelled},
}

// payableStatuses are the states a verified payment may land on
var payableStatuses = map[models.InvoiceStatus]bool{
	models.InvoiceStatusDraft:   true,
	models.InvoiceStatusSent:    true,
	models.InvoiceStatusOverdue: true,
}

// CanTransition reports whether a caller-requested status change is legal
func CanTransition(from, to models.InvoiceStatus) bool {
	for _, next := range userTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidStateError when the requested
// status change is not allowed
func ValidateTransition(from, to models.InvoiceStatus) error {
	if to == models.InvoiceStatusPaid {
		return errs.InvalidState("invoice can only be marked paid through payment verification")
	}
	if !CanTransition(from, to) {
		return errs.InvalidState("invoice cannot move from %s to %s", from, to)
	}
	return nil
}

// IsPayable reports whether a verified payment may be applied to an
// invoice in this status
func IsPayable(status models.InvoiceStatus) bool {
	return payableStatuses[status]
}

// IsEditable reports whether line items and monetary fields may still change
func IsEditable(status models.InvoiceStatus) bool {
	return status == models.InvoiceStatusDraft ||
		status == models.InvoiceStatusSent ||
		status == models.InvoiceStatusOverdue
}

// IsOverdue reports whether a sent invoice has passed its due date.
// Overdue is derived lazily on read; there is no background timer.
func IsOverdue(inv *models.Invoice, now time.Time) bool {
	return inv.Status == models.InvoiceStatusSent && now.After(inv.DueDate)
}
