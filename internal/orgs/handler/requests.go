package handler

import (
	"strings"

	dErrors "resgate/pkg/domain-errors"
)

// RejectRequest is the HTTP request body for POST /orgs/{id}/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Validate validates the request.
func (r *RejectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "reason is required")
	}
	if len(r.Reason) > 1000 {
		return dErrors.New(dErrors.CodeInvalidInput, "reason is too long")
	}
	return nil
}
