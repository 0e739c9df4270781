package handler

import (
	"strings"

	dErrors "resgate/pkg/domain-errors"
)

const (
	maxNameLen  = 200
	maxEmailLen = 254
	maxPhoneLen = 30
)

// RegisterAccountRequest is the HTTP request body for citizen and staff
// registration.
type RegisterAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate checks the fields the handler can check; CPF checksum and
// password policy belong to the service.
func (r *RegisterAccountRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if len(r.Name) > maxNameLen {
		return dErrors.New(dErrors.CodeInvalidInput, "name is too long")
	}
	if len(r.Email) > maxEmailLen {
		return dErrors.New(dErrors.CodeInvalidInput, "email is too long")
	}
	if len(r.Phone) > maxPhoneLen {
		return dErrors.New(dErrors.CodeInvalidInput, "phone is too long")
	}

	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if strings.TrimSpace(r.CPF) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "cpf is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return nil
}

// LoginRequest is the HTTP request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the request.
func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}
	return nil
}
