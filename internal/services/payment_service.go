package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"invoicely-backend/internal/billing"
	"invoicely-backend/internal/cache"
	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/gateway"
	"invoicely-backend/internal/metrics"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

// PaymentService issues gateway orders for invoices and reconciles
// completed payments from both the synchronous verify endpoint and the
// asynchronous webhook. Both paths converge on the store's conditional
// mark-paid, so an invoice is paid at most once no matter how often or
// in what order confirmations arrive.
type PaymentService struct {
	Invoices store.InvoiceStore
	Payments store.PaymentStore
	Gateway  gateway.PaymentGateway
	Cache    *cache.Cache

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewPaymentService(
	invoices store.InvoiceStore,
	payments store.PaymentStore,
	gw gateway.PaymentGateway,
	c *cache.Cache,
	keyID, keySecret, webhookSecret string,
) *PaymentService {
	return &PaymentService{
		Invoices:      invoices,
		Payments:      payments,
		Gateway:       gw,
		Cache:         c,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// CreateOrder asks the gateway for an order covering the invoice total.
// The order reference is stored on the invoice only after the gateway
// call succeeds, so a failed call leaves no trace.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, req *models.CreatePaymentOrderRequest) (*models.CreatePaymentOrderResponse, error) {
	if req.InvoiceID == "" {
		return nil, errs.Validation("invoice_id is required")
	}

	invoice, err := s.Invoices.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, errs.NotFound("invoice")
	}

	if !billing.IsPayable(invoice.Status) {
		return nil, errs.InvalidState("a %s invoice cannot accept payment", invoice.Status)
	}

	amountMinor, err := billing.MinorUnits(invoice.Total)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, errs.Validation("invoice total must be positive to create a payment order")
	}

	order, err := s.Gateway.CreateOrder(ctx, amountMinor, invoice.Currency, map[string]interface{}{
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
	})
	if err != nil {
		metrics.GatewayOrderErrors.Inc()
		return nil, err
	}

	if err := s.Invoices.SetGatewayOrder(ctx, invoice.ID, order.ID); err != nil {
		return nil, err
	}

	log.Printf("[PaymentService] Created order %s for invoice %s (%d minor units)", order.ID, invoice.InvoiceNumber, amountMinor)

	return &models.CreatePaymentOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment checks the checkout proof submitted by the frontend and,
// when valid, marks the invoice paid. Re-submitting a proof for an
// already-paid invoice succeeds without further effect.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID string, req *models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, errs.Validation("order_id, payment_id and signature are required")
	}

	if !s.verifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, errs.SignatureMismatch()
	}

	invoice, err := s.Invoices.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, errs.NotFound("invoice")
	}

	applied, err := s.applyPayment(ctx, invoice, req.PaymentID, req.OrderID, "", "verify")
	if err != nil {
		return nil, err
	}

	if !applied {
		return &models.VerifyPaymentResponse{
			Success: true,
			Message: "payment already recorded",
		}, nil
	}

	return &models.VerifyPaymentResponse{
		Success: true,
		Message: "payment verified",
	}, nil
}

// applyPayment marks the invoice paid through the store's conditional
// transition and records the completed payment. Returns false when a
// concurrent or earlier confirmation already won.
func (s *PaymentService) applyPayment(ctx context.Context, invoice *models.Invoice, paymentID, orderID, method, path string) (bool, error) {
	now := time.Now()

	applied, err := s.Invoices.MarkPaid(ctx, invoice.ID, now)
	if err != nil {
		return false, err
	}
	if !applied {
		// Reload to tell an idempotent replay apart from a dead invoice
		current, err := s.Invoices.Get(ctx, invoice.ID)
		if err != nil {
			return false, err
		}
		if current.Status == models.InvoiceStatusPaid {
			log.Printf("[PaymentService] Invoice %s already paid, ignoring confirmation for payment %s", invoice.InvoiceNumber, paymentID)
			return false, nil
		}
		return false, errs.InvalidState("a %s invoice cannot accept payment", current.Status)
	}

	payment := &models.Payment{
		InvoiceID:        invoice.ID,
		Amount:           invoice.Total,
		Currency:         invoice.Currency,
		Status:           models.PaymentStatusCompleted,
		PaymentMethod:    method,
		GatewayPaymentID: paymentID,
		GatewayOrderID:   orderID,
		PaidAt:           &now,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		// The invoice is paid regardless; the record is bookkeeping
		log.Printf("[PaymentService] Failed to record payment %s for invoice %s: %v", paymentID, invoice.ID, err)
	}

	metrics.PaymentsReconciled.WithLabelValues(path).Inc()
	s.Cache.Invalidate(ctx, analyticsKey(invoice.UserID))

	log.Printf("[PaymentService] Invoice %s marked paid via %s (payment %s)", invoice.InvoiceNumber, path, paymentID)
	return true, nil
}

// verifySignature checks the gateway checkout signature:
// hex(HMAC-SHA256(orderID|paymentID, keySecret))
func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// VerifyWebhookSignature checks the HMAC over the raw webhook body
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// ProcessWebhook dispatches a gateway event. Unknown events are logged
// and acknowledged so the gateway does not retry them forever.
func (s *PaymentService) ProcessWebhook(ctx context.Context, event *models.WebhookEvent) error {
	switch event.Event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, event.Payload)
	case "payment.failed":
		return s.handlePaymentFailed(ctx, event.Payload)
	default:
		log.Printf("[PaymentService] Unhandled webhook event: %s", event.Event)
		return nil
	}
}

func (s *PaymentService) handlePaymentCaptured(ctx context.Context, payload map[string]interface{}) error {
	entity := paymentEntity(payload)

	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	method, _ := entity["method"].(string)

	if orderID == "" {
		return errs.Validation("webhook payload missing order_id")
	}

	invoice, err := s.Invoices.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	_, err = s.applyPayment(ctx, invoice, paymentID, orderID, method, "webhook")
	return err
}

func (s *PaymentService) handlePaymentFailed(ctx context.Context, payload map[string]interface{}) error {
	entity := paymentEntity(payload)

	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	method, _ := entity["method"].(string)

	reason := "payment failed"
	if desc, ok := entity["error_description"].(string); ok && desc != "" {
		reason = desc
	}

	if orderID == "" {
		return nil
	}

	invoice, err := s.Invoices.GetByOrderID(ctx, orderID)
	if err != nil {
		log.Printf("[PaymentService] Failed payment for unknown order %s: %s", orderID, reason)
		return nil
	}

	// A failed attempt never changes invoice status; the record keeps
	// the reason for support and retries
	payment := &models.Payment{
		InvoiceID:        invoice.ID,
		Amount:           invoice.Total,
		Currency:         invoice.Currency,
		Status:           models.PaymentStatusFailed,
		PaymentMethod:    method,
		GatewayPaymentID: paymentID,
		GatewayOrderID:   orderID,
		FailureReason:    reason,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		log.Printf("[PaymentService] Failed to record failed payment for invoice %s: %v", invoice.ID, err)
	}

	log.Printf("[PaymentService] Payment failed for invoice %s: %s", invoice.InvoiceNumber, reason)
	return nil
}

// paymentEntity digs payload.payment.entity out of the webhook body,
// tolerating flatter shapes
func paymentEntity(payload map[string]interface{}) map[string]interface{} {
	paymentData, ok := payload["payment"].(map[string]interface{})
	if !ok {
		paymentData = payload
	}
	entity, ok := paymentData["entity"].(map[string]interface{})
	if !ok {
		entity = paymentData
	}
	return entity
}

// ListPayments returns the payment attempts recorded against an invoice
func (s *PaymentService) ListPayments(ctx context.Context, userID, invoiceID string) ([]*models.Payment, error) {
	invoice, err := s.Invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != userID {
		return nil, errs.NotFound("invoice")
	}
	return s.Payments.GetByInvoice(ctx, invoiceID)
}
