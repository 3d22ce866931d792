// Package dto defines wire request/response shapes for the API.
package dto

import "github.com/pantrybox/pantrybox/internal/model"

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /api/login.
type LoginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// VerifyResponse is the success body of GET /api/verify.
type VerifyResponse struct {
	User model.PublicUser `json:"user"`
}

// CreateUserRequest is the body of POST /api/admin/users.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CreateUserResponse is the success body of POST /api/admin/users.
type CreateUserResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
