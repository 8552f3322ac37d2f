package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// Monetary columns are NUMERIC in the schema; they are selected as text so
// the fixed-point strings round-trip exactly.
const invoiceColumns = `id, user_id, client_id, invoice_number, status, currency,
	subtotal::text, tax_amount::text, total::text,
	issue_date, due_date, paid_date, notes, items, gateway_order_id,
	created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber,
		&inv.Status, &inv.Currency, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate, &inv.Notes, &inv.Items,
		&inv.GatewayOrderID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "invoice")
	}
	return inv, nil
}

func (r *InvoiceRepository) GetByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	return r.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (r *InvoiceRepository) GetByClient(ctx context.Context, clientID string) ([]*models.Invoice, error) {
	return r.queryInvoices(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE client_id = $1 ORDER BY created_at`, clientID)
}

func (r *InvoiceRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Invoice, error) {
	if orderID == "" {
		return nil, errs.NotFound("invoice")
	}
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE gateway_order_id = $1`, orderID))
	if err != nil {
		return nil, notFoundOr(err, "invoice")
	}
	return inv, nil
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// NextInvoiceNumber draws from a database sequence for O(1) generation
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var next int
	if err := r.DB.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&next); err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", next), nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO invoices(user_id, client_id, invoice_number, status, currency,
		                      subtotal, tax_amount, total, issue_date, due_date,
		                      notes, items, gateway_order_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		inv.UserID, inv.ClientID, inv.InvoiceNumber, inv.Status, inv.Currency,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.IssueDate, inv.DueDate,
		inv.Notes, inv.Items, inv.GatewayOrderID,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *InvoiceRepository) Update(ctx context.Context, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	// Ownership, totals and items are out of reach here; totals go through
	// SetTotals and the paid transition through MarkPaid.
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`UPDATE invoices SET
			status     = COALESCE($2, status),
			issue_date = COALESCE($3, issue_date),
			due_date   = COALESCE($4, due_date),
			notes      = COALESCE($5, notes),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+invoiceColumns,
		id, req.Status, req.IssueDate, req.DueDate, req.Notes))
	if err != nil {
		return nil, notFoundOr(err, "invoice")
	}
	return inv, nil
}

func (r *InvoiceRepository) SetTotals(ctx context.Context, id string, items []models.InvoiceItem, subtotal, taxAmount, total string) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`UPDATE invoices SET
			items      = $2,
			subtotal   = $3,
			tax_amount = $4,
			total      = $5,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+invoiceColumns,
		id, items, subtotal, taxAmount, total))
	if err != nil {
		return nil, notFoundOr(err, "invoice")
	}
	return inv, nil
}

func (r *InvoiceRepository) SetGatewayOrder(ctx context.Context, id, orderID string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET gateway_order_id = $2, updated_at = now() WHERE id = $1`,
		id, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("invoice")
	}
	return nil
}

// MarkPaid applies the paid transition with an optimistic status guard:
// the conditional UPDATE succeeds for exactly one of any set of concurrent
// reconciliation attempts.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = 'paid', paid_date = $2, updated_at = now()
		 WHERE id = $1 AND status IN ('draft', 'sent', 'overdue')`,
		id, paidAt.UTC())
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing updated: distinguish a missing invoice from one already
	// paid or cancelled.
	var exists bool
	if err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, errs.NotFound("invoice")
	}
	return false, nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	// Payments cascade via foreign key
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("invoice")
	}
	return nil
}
