// Package orgs manages rescue organization registrations: NGOs submit a
// form with a CNPJ and proof document, administrators approve or reject,
// and only approved organizations may claim cases or register staff.
package orgs

import (
	"resgate/internal/orgs/handler"
	"resgate/internal/orgs/service"
)

// Service orchestrates registration and review.
type Service = service.Service

// Handler exposes organization operations over HTTP.
type Handler = handler.Handler

var (
	NewService = service.NewService
	NewHandler = handler.New
)
