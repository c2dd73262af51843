package handler

import "github.com/taskhive/account-service/internal/core/domain"

// --- Request / Response types ---

type signUpRequest struct {
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname"  validate:"required"`
	Username  string `json:"username"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"`
	LoginType string `json:"logintype" validate:"omitempty,oneof=email google"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the success envelope for sign-up and sign-in. Status is
// always true here; failures go through the error handler envelope.
type authResponse struct {
	User   *domain.User `json:"user,omitempty"`
	Token  string       `json:"token,omitempty"`
	Status bool         `json:"status"`
}

type usersResponse struct {
	Users  []domain.User `json:"users"`
	Status bool          `json:"status"`
}
