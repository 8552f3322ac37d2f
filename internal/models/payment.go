package models

import "time"

// PaymentStatus is the outcome of a gateway payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records one gateway payment attempt against an invoice.
// An invoice may accumulate several records (retries), but at most one
// reaches status completed.
type Payment struct {
	ID               string        `json:"id"`
	InvoiceID        string        `json:"invoice_id"`
	Amount           string        `json:"amount"`
	Currency         string        `json:"currency"`
	Status           PaymentStatus `json:"status"`
	PaymentMethod    string        `json:"payment_method,omitempty"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty"`
	GatewayOrderID   string        `json:"gateway_order_id,omitempty"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// CreatePaymentOrderRequest asks the gateway for an order covering an invoice total
type CreatePaymentOrderRequest struct {
	InvoiceID string `json:"invoice_id"`
}

// CreatePaymentOrderResponse is returned to the frontend for gateway checkout
type CreatePaymentOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	KeyID    string `json:"key_id,omitempty"`
}

// VerifyPaymentRequest is the gateway-issued proof submitted by the client
// after checkout completes
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// VerifyPaymentResponse reports the reconciliation outcome
type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookEvent is the asynchronous notification posted by the payment gateway
type WebhookEvent struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}
