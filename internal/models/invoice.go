package models

import "time"

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is one billable line on an invoice. Amount is always
// recomputed server-side from quantity and rate, never taken from the caller.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      string  `json:"amount"`
}

// Invoice is a billing document issued by a user to a client.
// Monetary fields are fixed-point decimal strings (two fraction digits)
// so they round-trip through storage without drift.
type Invoice struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	ClientID       string        `json:"client_id"`
	InvoiceNumber  string        `json:"invoice_number"`
	Status         InvoiceStatus `json:"status"`
	Currency       string        `json:"currency"`
	Subtotal       string        `json:"subtotal"`
	TaxAmount      string        `json:"tax_amount"`
	Total          string        `json:"total"`
	IssueDate      time.Time     `json:"issue_date"`
	DueDate        time.Time     `json:"due_date"`
	PaidDate       *time.Time    `json:"paid_date,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Items          []InvoiceItem `json:"items"`
	GatewayOrderID string        `json:"gateway_order_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CreateInvoiceRequest represents the request to create a draft invoice
type CreateInvoiceRequest struct {
	ClientID  string        `json:"client_id"`
	Currency  string        `json:"currency"`
	IssueDate time.Time     `json:"issue_date"`
	DueDate   time.Time     `json:"due_date"`
	Notes     string        `json:"notes"`
	Items     []InvoiceItem `json:"items"`
}

// UpdateInvoiceRequest carries partial invoice updates. Nil fields are left
// unchanged. Monetary fields are not settable directly; they are recomputed
// when Items changes.
type UpdateInvoiceRequest struct {
	Status    *InvoiceStatus `json:"status,omitempty"`
	IssueDate *time.Time     `json:"issue_date,omitempty"`
	DueDate   *time.Time     `json:"due_date,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
	Items     *[]InvoiceItem `json:"items,omitempty"`
}

// Analytics is the dashboard aggregate computed from a user's invoices
type Analytics struct {
	TotalRevenue    string     `json:"total_revenue"`
	PendingAmount   string     `json:"pending_amount"`
	OverdueAmount   string     `json:"overdue_amount"`
	TotalInvoices   int        `json:"total_invoices"`
	TotalClients    int        `json:"total_clients"`
	RecentInvoices  []*Invoice `json:"recent_invoices"`
	RecentClients   []*Client  `json:"recent_clients"`
}
