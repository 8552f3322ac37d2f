package handlers

import (
	"net/http"

	"invoicely-backend/internal/middleware"
	"invoicely-backend/internal/services"
	"invoicely-backend/pkg/utils"
)

type AnalyticsHandler struct {
	Service *services.InvoiceService
}

func NewAnalyticsHandler(service *services.InvoiceService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: service}
}

// GetAnalytics returns the dashboard aggregate for the authenticated user
// GET /api/analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	analytics, err := h.Service.GetAnalytics(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, analytics)
}
