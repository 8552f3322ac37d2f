package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"invoicely-backend/internal/middleware"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/services"
	"invoicely-backend/pkg/utils"
)

type ClientHandler struct {
	Service *services.ClientService
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{Service: service}
}

// CreateClient creates a client owned by the authenticated user
// POST /api/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	client, err := h.Service.CreateClient(r.Context(), userID, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, client)
}

// ListClients returns the user's clients
// GET /api/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clients, err := h.Service.ListClients(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, clients)
}

// GetClient returns one client by ID
// GET /api/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	client, err := h.Service.GetClient(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, client)
}

// UpdateClient applies partial updates to a client
// PATCH /api/clients/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	client, err := h.Service.UpdateClient(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, client)
}

// DeleteClient removes a client and its invoices
// DELETE /api/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteClient(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
