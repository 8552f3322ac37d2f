// Package store defines the storage contract consumed by the services.
// Two adapters satisfy it identically: the volatile in-memory store
// (memstore) and the PostgreSQL repositories.
package store

import (
	"context"
	"time"

	"invoicely-backend/internal/models"
)

// UserStore persists user profiles
type UserStore interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// ClientStore persists clients. Delete cascades to the client's invoices
// and their payments.
type ClientStore interface {
	Get(ctx context.Context, id string) (*models.Client, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

// InvoiceStore persists invoices. Delete cascades to the invoice's payments.
type InvoiceStore interface {
	Get(ctx context.Context, id string) (*models.Invoice, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Invoice, error)
	GetByClient(ctx context.Context, clientID string) ([]*models.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Invoice, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error

	// SetTotals replaces the recomputed items and monetary fields together
	SetTotals(ctx context.Context, id string, items []models.InvoiceItem, subtotal, taxAmount, total string) (*models.Invoice, error)

	// SetGatewayOrder records the gateway order reference on the invoice
	SetGatewayOrder(ctx context.Context, id, orderID string) error

	// MarkPaid transitions the invoice to paid and sets paidDate, but only
	// if the invoice is still in a payable status. It reports whether this
	// call applied the transition, so concurrent reconciliations resolve to
	// exactly one winner.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
}

// PaymentStore persists gateway payment records
type PaymentStore interface {
	Get(ctx context.Context, id string) (*models.Payment, error)
	GetByInvoice(ctx context.Context, invoiceID string) ([]*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
}

// Store bundles the per-entity stores an adapter provides
type Store struct {
	Users    UserStore
	Clients  ClientStore
	Invoices InvoiceStore
	Payments PaymentStore
}
