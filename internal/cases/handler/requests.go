package handler

import (
	"strings"

	"resgate/internal/cases/models"
	dErrors "resgate/pkg/domain-errors"
)

const (
	maxDescriptionLen = 2000
	maxAddressLen     = 500
	maxMessageLen     = 2000
)

// ReportCaseRequest is the HTTP request body for POST /cases.
type ReportCaseRequest struct {
	Species     string `json:"species"`
	AgeCategory string `json:"age_category"`
	Injured     bool   `json:"injured"`
	Description string `json:"description"`
	Address     string `json:"address"`

	parsedAge models.AgeCategory
}

// Validate validates and parses the request.
func (r *ReportCaseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if len(r.Description) > maxDescriptionLen {
		return dErrors.New(dErrors.CodeInvalidInput, "description is too long")
	}
	if len(r.Address) > maxAddressLen {
		return dErrors.New(dErrors.CodeInvalidInput, "address is too long")
	}

	r.Species = strings.TrimSpace(r.Species)
	if r.Species == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "species is required")
	}
	r.Address = strings.TrimSpace(r.Address)
	if r.Address == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	r.Description = strings.TrimSpace(r.Description)

	age, err := models.ParseAgeCategory(r.AgeCategory)
	if err != nil {
		return err
	}
	r.parsedAge = age
	return nil
}

// ParsedAgeCategory returns the validated age category.
func (r *ReportCaseRequest) ParsedAgeCategory() models.AgeCategory {
	return r.parsedAge
}

// SendMessageRequest is the HTTP request body for POST /cases/{id}/messages.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Validate validates the request.
func (r *SendMessageRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Text) > maxMessageLen {
		return dErrors.New(dErrors.CodeInvalidInput, "message is too long")
	}
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "text is required")
	}
	return nil
}
