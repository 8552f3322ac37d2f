package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, username, first_name, last_name, avatar_url,
	business_name, business_address, business_phone, business_email,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.AvatarURL, &u.BusinessName, &u.BusinessAddress, &u.BusinessPhone,
		&u.BusinessEmail, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(email, username, first_name, last_name, avatar_url,
		                   business_name, business_address, business_phone, business_email)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.Username, user.FirstName, user.LastName, user.AvatarURL,
		user.BusinessName, user.BusinessAddress, user.BusinessPhone, user.BusinessEmail,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	// COALESCE keeps columns untouched when the request field is nil;
	// id, email and created_at are never updatable.
	user, err := scanUser(r.DB.QueryRow(ctx,
		`UPDATE users SET
			username         = COALESCE($2, username),
			first_name       = COALESCE($3, first_name),
			last_name        = COALESCE($4, last_name),
			avatar_url       = COALESCE($5, avatar_url),
			business_name    = COALESCE($6, business_name),
			business_address = COALESCE($7, business_address),
			business_phone   = COALESCE($8, business_phone),
			business_email   = COALESCE($9, business_email),
			updated_at       = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, req.Username, req.FirstName, req.LastName, req.AvatarURL,
		req.BusinessName, req.BusinessAddress, req.BusinessPhone, req.BusinessEmail))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("user")
	}
	return nil
}
