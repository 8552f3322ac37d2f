package handlers

import (
	"encoding/json"
	"net/http"

	"invoicely-backend/internal/models"
	"invoicely-backend/internal/services"
	"invoicely-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{Service: service}
}

// Login upserts the externally-authenticated user and returns a session token
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
