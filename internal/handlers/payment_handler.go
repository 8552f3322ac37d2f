package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"invoicely-backend/internal/middleware"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/services"
	"invoicely-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

// CreateOrder issues a gateway order for an invoice
// POST /api/payment-orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreatePaymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.Service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[PaymentHandler] CreateOrder error: %v", err)
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

// VerifyPayment reconciles a checkout proof submitted by the frontend
// POST /api/verify-payment
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.Service.VerifyPayment(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[PaymentHandler] VerifyPayment error: %v", err)
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// ListPayments returns the payment attempts recorded against an invoice
// GET /api/invoices/{id}/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	payments, err := h.Service.ListPayments(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

// HandleWebhook processes asynchronous gateway notifications. A bad
// signature is rejected; everything past that point is acknowledged with
// 200 so the gateway does not retry events we have already settled.
// POST /api/webhooks/payment-gateway
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[PaymentHandler] Failed to read webhook body: %v", err)
		utils.BadRequest(w, "Failed to read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Service.VerifyWebhookSignature(body, signature) {
		log.Printf("[PaymentHandler] Invalid webhook signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[PaymentHandler] Failed to parse webhook: %v", err)
		utils.BadRequest(w, "Invalid JSON")
		return
	}

	log.Printf("[PaymentHandler] Received webhook: %s", event.Event)

	if err := h.Service.ProcessWebhook(r.Context(), &event); err != nil {
		log.Printf("[PaymentHandler] Webhook processing error: %v", err)
		// Acknowledge anyway; a retry would hit the same condition
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
