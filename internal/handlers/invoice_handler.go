package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"invoicely-backend/internal/middleware"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/services"
	"invoicely-backend/pkg/utils"
)

type InvoiceHandler struct {
	Service    *services.InvoiceService
	PDFService *services.PDFService
}

func NewInvoiceHandler(service *services.InvoiceService, pdfService *services.PDFService) *InvoiceHandler {
	return &InvoiceHandler{Service: service, PDFService: pdfService}
}

// CreateInvoice creates a draft invoice with server-computed totals
// POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), userID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, invoice)
}

// ListInvoices returns the user's invoices, newest first
// GET /api/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invoices, err := h.Service.ListInvoices(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice by ID
// GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// UpdateInvoice applies partial updates under the lifecycle rules
// PATCH /api/invoices/{id}
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// SendInvoice moves a draft invoice to sent
// POST /api/invoices/{id}/send
func (h *InvoiceHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invoice, err := h.Service.SendInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice and its payment records
// DELETE /api/invoices/{id}
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteInvoice(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadPDF streams the invoice as a PDF document
// GET /api/invoices/{id}/pdf
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	data, err := h.PDFService.RenderInvoice(r.Context(), invoice)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	w.Write(data)
}
