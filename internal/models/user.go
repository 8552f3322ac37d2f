package models

import "time"

// User is the owner of clients and invoices. Identity verification is
// delegated to the external identity provider; we only keep the profile.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	BusinessName    string    `json:"business_name,omitempty"`
	BusinessAddress string    `json:"business_address,omitempty"`
	BusinessPhone   string    `json:"business_phone,omitempty"`
	BusinessEmail   string    `json:"business_email,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LoginRequest is sent after the identity provider has authenticated the user
type LoginRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// LoginResponse carries the session token for subsequent API calls
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest carries partial profile updates. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username        *string `json:"username,omitempty"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	BusinessName    *string `json:"business_name,omitempty"`
	BusinessAddress *string `json:"business_address,omitempty"`
	BusinessPhone   *string `json:"business_phone,omitempty"`
	BusinessEmail   *string `json:"business_email,omitempty"`
}
