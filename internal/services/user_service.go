package services

import (
	"context"
	"errors"
	"strings"

	"invoicely-backend/internal/auth"
	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

type UserService struct {
	Users      store.UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(users store.UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Users: users, JWTManager: jwtManager}
}

// Login upserts the user by email and issues a session token. Identity
// verification itself happened at the external provider before this call.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" {
		return nil, errs.Validation("email is required")
	}

	user, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		var notFound *errs.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}

		username := req.Username
		if username == "" {
			username = strings.SplitN(req.Email, "@", 2)[0]
		}

		user = &models.User{
			Email:     req.Email,
			Username:  username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			AvatarURL: req.AvatarURL,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{User: user, Token: token}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Users.Get(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	return s.Users.Update(ctx, id, req)
}
