package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoicely-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, invoice_id, amount::text, currency, status,
	payment_method, gateway_payment_id, gateway_order_id, failure_reason,
	paid_at, created_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.GatewayPaymentID, &p.GatewayOrderID,
		&p.FailureReason, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := scanPayment(r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "payment")
	}
	return payment, nil
}

func (r *PaymentRepository) GetByInvoice(ctx context.Context, invoiceID string) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments(invoice_id, amount, currency, status, payment_method,
		                      gateway_payment_id, gateway_order_id, failure_reason, paid_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		payment.InvoiceID, payment.Amount, payment.Currency, payment.Status,
		payment.PaymentMethod, payment.GatewayPaymentID, payment.GatewayOrderID,
		payment.FailureReason, payment.PaidAt,
	).Scan(&payment.ID, &payment.CreatedAt)
}
