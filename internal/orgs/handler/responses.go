package handler

import (
	"time"

	"resgate/internal/orgs/models"
	"resgate/internal/orgs/service"
)

// OrganizationResponse is the HTTP representation of an organization.
type OrganizationResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	CNPJ            string     `json:"cnpj"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RegisteredAt    time.Time  `json:"registered_at"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	HasDocument     bool       `json:"has_document"`
}

// FromOrganization converts a domain organization to its HTTP
// representation. Credentials and raw object paths never leave the server.
func FromOrganization(org *models.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:              org.ID.String(),
		Name:            org.Name,
		CNPJ:            org.CNPJ,
		Email:           org.Email,
		Phone:           org.Phone,
		Address:         org.Address,
		Status:          string(org.Status),
		RejectionReason: org.RejectionReason,
		RegisteredAt:    org.RegisteredAt,
		DecidedAt:       org.DecidedAt,
		HasDocument:     org.DocumentPath != "",
	}
}

// FromOrganizations converts a list, never returning nil.
func FromOrganizations(orgs []*models.Organization) []*OrganizationResponse {
	out := make([]*OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, FromOrganization(org))
	}
	return out
}

// RegistrationResponse is the HTTP response for POST /orgs/register.
type RegistrationResponse struct {
	Organization   *OrganizationResponse `json:"organization"`
	DocumentStored bool                  `json:"document_stored"`
	Warning        string                `json:"warning,omitempty"`
}

// FromRegistrationResult converts a registration outcome.
func FromRegistrationResult(result *service.RegistrationResult) *RegistrationResponse {
	return &RegistrationResponse{
		Organization:   FromOrganization(result.Organization),
		DocumentStored: result.DocumentStored,
		Warning:        result.Warning,
	}
}

// DecisionResponse is the HTTP response for approve/reject.
type DecisionResponse struct {
	Organization  *OrganizationResponse `json:"organization"`
	DocumentMoved bool                  `json:"document_moved"`
	Warning       string                `json:"warning,omitempty"`
}

// FromDecisionResult converts a review outcome.
func FromDecisionResult(result *service.DecisionResult) *DecisionResponse {
	return &DecisionResponse{
		Organization:  FromOrganization(result.Organization),
		DocumentMoved: result.DocumentMoved,
		Warning:       result.Warning,
	}
}

// DocumentURLResponse is the HTTP response for GET /orgs/{id}/document.
type DocumentURLResponse struct {
	URL string `json:"url"`
}
