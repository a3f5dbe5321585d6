package auth

import "github.com/librisbooks/libris/pkg/models"

// RegisterPayload is the payload for registering a user.
type RegisterPayload struct {
	Name     string `json:"name" mod:"trim" validate:"required,max=255"`
	Email    string `json:"email" mod:"trim" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginPayload is the payload for logging in.
type LoginPayload struct {
	Email    string `json:"email" mod:"trim" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// MessageResponse is a bare message envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
