package services

import (
	"context"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

type ClientService struct {
	Clients store.ClientStore
}

func NewClientService(clients store.ClientStore) *ClientService {
	return &ClientService{Clients: clients}
}

func (s *ClientService) CreateClient(ctx context.Context, userID string, req *models.CreateClientRequest) (*models.Client, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errs.Validation("client name and email are required")
	}

	client := &models.Client{
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Company: req.Company,
		Notes:   req.Notes,
	}

	if err := s.Clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// getOwned loads a client and hides it from non-owners: a foreign
// client is indistinguishable from a missing one.
func (s *ClientService) getOwned(ctx context.Context, userID, id string) (*models.Client, error) {
	client, err := s.Clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.UserID != userID {
		return nil, errs.NotFound("client")
	}
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, userID, id string) (*models.Client, error) {
	return s.getOwned(ctx, userID, id)
}

func (s *ClientService) ListClients(ctx context.Context, userID string) ([]*models.Client, error) {
	return s.Clients.GetByUser(ctx, userID)
}

func (s *ClientService) UpdateClient(ctx context.Context, userID, id string, req *models.UpdateClientRequest) (*models.Client, error) {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Clients.Update(ctx, id, req)
}

func (s *ClientService) DeleteClient(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	// Invoices and payments for the client are removed with it
	return s.Clients.Delete(ctx, id)
}
