package handlers

import (
	"net/http"

	"invoicely-backend/internal/health"
	"invoicely-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

// Check reports service and database health
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	utils.JSON(w, code, status)
}
