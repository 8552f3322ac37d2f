// Package repositories is the PostgreSQL adapter of the store contract,
// built on a pgx connection pool with raw SQL. Cascade deletes are
// enforced by the schema's foreign keys.
package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/store"
)

// NewStore wires the pgx-backed repositories into a store.Store
func NewStore(pool *pgxpool.Pool) *store.Store {
	return &store.Store{
		Users:    NewUserRepository(pool),
		Clients:  NewClientRepository(pool),
		Invoices: NewInvoiceRepository(pool),
		Payments: NewPaymentRepository(pool),
	}
}

// notFoundOr converts pgx's no-rows error into the taxonomy's NotFoundError
func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NotFound(resource)
	}
	return err
}
