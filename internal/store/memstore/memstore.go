// Package memstore is the volatile in-memory adapter of the store
// contract. It backs tests and local development when no database is
// configured. The store is an explicit instance handed to the services;
// there is no package-level state.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

type memStore struct {
	mu sync.RWMutex

	users    map[string]*models.User
	clients  map[string]*models.Client
	invoices map[string]*models.Invoice
	payments map[string]*models.Payment

	invoiceSeq int
}

// New returns a store.Store backed by in-process maps
func New() *store.Store {
	m := &memStore{
		users:    make(map[string]*models.User),
		clients:  make(map[string]*models.Client),
		invoices: make(map[string]*models.Invoice),
		payments: make(map[string]*models.Payment),
	}
	return &store.Store{
		Users:    (*userStore)(m),
		Clients:  (*clientStore)(m),
		Invoices: (*invoiceStore)(m),
		Payments: (*paymentStore)(m),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// Users

type userStore memStore

func (s *userStore) Get(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, errs.NotFound("user")
	}
	return cloneUser(user), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, errs.NotFound("user")
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = uuid.NewString()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *userStore) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, errs.NotFound("user")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.BusinessName != nil {
		user.BusinessName = *req.BusinessName
	}
	if req.BusinessAddress != nil {
		user.BusinessAddress = *req.BusinessAddress
	}
	if req.BusinessPhone != nil {
		user.BusinessPhone = *req.BusinessPhone
	}
	if req.BusinessEmail != nil {
		user.BusinessEmail = *req.BusinessEmail
	}
	user.UpdatedAt = now()

	return cloneUser(user), nil
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return errs.NotFound("user")
	}

	// Cascade: clients, invoices and payments owned by the user go with it
	for clientID, client := range s.clients {
		if client.UserID == id {
			delete(s.clients, clientID)
		}
	}
	for invoiceID, inv := range s.invoices {
		if inv.UserID == id {
			(*memStore)(s).deletePaymentsForInvoice(invoiceID)
			delete(s.invoices, invoiceID)
		}
	}
	delete(s.users, id)
	return nil
}

// Clients

type clientStore memStore

func (s *clientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, errs.NotFound("client")
	}
	return cloneClient(client), nil
}

func (s *clientStore) GetByUser(ctx context.Context, userID string) ([]*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Client
	for _, client := range s.clients {
		if client.UserID == userID {
			out = append(out, cloneClient(client))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *clientStore) Create(ctx context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client.ID = uuid.NewString()
	client.CreatedAt = now()
	client.UpdatedAt = client.CreatedAt
	s.clients[client.ID] = cloneClient(client)
	return nil
}

func (s *clientStore) Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, errs.NotFound("client")
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	client.UpdatedAt = now()

	return cloneClient(client), nil
}

func (s *clientStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return errs.NotFound("client")
	}

	// Cascade: invoices referencing the client, and their payments
	for invoiceID, inv := range s.invoices {
		if inv.ClientID == id {
			(*memStore)(s).deletePaymentsForInvoice(invoiceID)
			delete(s.invoices, invoiceID)
		}
	}
	delete(s.clients, id)
	return nil
}

// Invoices

type invoiceStore memStore

func (s *invoiceStore) Get(ctx context.Context, id string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, errs.NotFound("invoice")
	}
	return cloneInvoice(inv), nil
}

func (s *invoiceStore) GetByUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *invoiceStore) GetByClient(ctx context.Context, clientID string) ([]*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.ClientID == clientID {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *invoiceStore) GetByOrderID(ctx context.Context, orderID string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if orderID == "" {
		return nil, errs.NotFound("invoice")
	}
	for _, inv := range s.invoices {
		if inv.GatewayOrderID == orderID {
			return cloneInvoice(inv), nil
		}
	}
	return nil, errs.NotFound("invoice")
}

func (s *invoiceStore) NextInvoiceNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoiceSeq++
	return fmt.Sprintf("INV-%06d", s.invoiceSeq), nil
}

func (s *invoiceStore) Create(ctx context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv.ID = uuid.NewString()
	inv.CreatedAt = now()
	inv.UpdatedAt = inv.CreatedAt
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *invoiceStore) Update(ctx context.Context, id string, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, errs.NotFound("invoice")
	}

	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	inv.UpdatedAt = now()

	return cloneInvoice(inv), nil
}

func (s *invoiceStore) SetTotals(ctx context.Context, id string, items []models.InvoiceItem, subtotal, taxAmount, total string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, errs.NotFound("invoice")
	}

	inv.Items = append([]models.InvoiceItem(nil), items...)
	inv.Subtotal = subtotal
	inv.TaxAmount = taxAmount
	inv.Total = total
	inv.UpdatedAt = now()

	return cloneInvoice(inv), nil
}

func (s *invoiceStore) SetGatewayOrder(ctx context.Context, id, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return errs.NotFound("invoice")
	}
	inv.GatewayOrderID = orderID
	inv.UpdatedAt = now()
	return nil
}

func (s *invoiceStore) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return false, errs.NotFound("invoice")
	}

	switch inv.Status {
	case models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusOverdue:
		paidAt = paidAt.UTC()
		inv.Status = models.InvoiceStatusPaid
		inv.PaidDate = &paidAt
		inv.UpdatedAt = now()
		return true, nil
	default:
		// Already paid or cancelled; the caller decides whether that is
		// an idempotent success or a state error.
		return false, nil
	}
}

func (s *invoiceStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[id]; !ok {
		return errs.NotFound("invoice")
	}
	(*memStore)(s).deletePaymentsForInvoice(id)
	delete(s.invoices, id)
	return nil
}

// Payments

type paymentStore memStore

func (s *paymentStore) Get(ctx context.Context, id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, errs.NotFound("payment")
	}
	return clonePayment(payment), nil
}

func (s *paymentStore) GetByInvoice(ctx context.Context, invoiceID string) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Payment
	for _, payment := range s.payments {
		if payment.InvoiceID == invoiceID {
			out = append(out, clonePayment(payment))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *paymentStore) Create(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment.ID = uuid.NewString()
	payment.CreatedAt = now()
	s.payments[payment.ID] = clonePayment(payment)
	return nil
}

// deletePaymentsForInvoice removes payment records tied to an invoice.
// Callers must hold the write lock.
func (m *memStore) deletePaymentsForInvoice(invoiceID string) {
	for id, payment := range m.payments {
		if payment.InvoiceID == invoiceID {
			delete(m.payments, id)
		}
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneClient(c *models.Client) *models.Client {
	out := *c
	return &out
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	out := *inv
	out.Items = append([]models.InvoiceItem(nil), inv.Items...)
	if inv.PaidDate != nil {
		paid := *inv.PaidDate
		out.PaidDate = &paid
	}
	return &out
}

func clonePayment(p *models.Payment) *models.Payment {
	out := *p
	if p.PaidAt != nil {
		paid := *p.PaidAt
		out.PaidAt = &paid
	}
	return &out
}
