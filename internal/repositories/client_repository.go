package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

type ClientRepository struct {
	DB *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, user_id, name, email, phone, address, company, notes,
	created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.Company, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := scanClient(r.DB.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "client")
	}
	return client, nil
}

func (r *ClientRepository) GetByUser(ctx context.Context, userID string) ([]*models.Client, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO clients(user_id, name, email, phone, address, company, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		client.UserID, client.Name, client.Email, client.Phone,
		client.Address, client.Company, client.Notes,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *ClientRepository) Update(ctx context.Context, id string, req *models.UpdateClientRequest) (*models.Client, error) {
	// user_id is ownership and never updatable
	client, err := scanClient(r.DB.QueryRow(ctx,
		`UPDATE clients SET
			name       = COALESCE($2, name),
			email      = COALESCE($3, email),
			phone      = COALESCE($4, phone),
			address    = COALESCE($5, address),
			company    = COALESCE($6, company),
			notes      = COALESCE($7, notes),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+clientColumns,
		id, req.Name, req.Email, req.Phone, req.Address, req.Company, req.Notes))
	if err != nil {
		return nil, notFoundOr(err, "client")
	}
	return client, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	// Invoices and payments cascade via foreign keys
	tag, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("client")
	}
	return nil
}
