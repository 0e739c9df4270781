// Package accounts manages who can act in the system: citizen
// self-registration, staff accounts owned by approved organizations, and
// the login/logout session lifecycle shared by users and organizations.
package accounts

import (
	"resgate/internal/accounts/handler"
	"resgate/internal/accounts/service"
)

// Service owns user accounts and sessions.
type Service = service.Service

// Handler exposes account operations over HTTP.
type Handler = handler.Handler

var (
	NewService = service.NewService
	NewHandler = handler.New
)
