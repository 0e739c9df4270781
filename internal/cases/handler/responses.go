package handler

import (
	"time"

	"resgate/internal/cases/models"
)

// CaseResponse is the HTTP representation of a case.
type CaseResponse struct {
	ID          string    `json:"id"`
	Species     string    `json:"species"`
	AgeCategory string    `json:"age_category"`
	Injured     bool      `json:"injured"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address"`
	ReportedAt  time.Time `json:"reported_at"`
	ReporterID  string    `json:"reporter_id"`
	Claimed     bool      `json:"claimed"`
	ClaimantID  string    `json:"claimant_id,omitempty"`
	Resolved    bool      `json:"resolved"`
}

// FromCase converts a domain case to its HTTP representation.
func FromCase(c *models.Case) *CaseResponse {
	resp := &CaseResponse{
		ID:          c.ID.String(),
		Species:     c.Species,
		AgeCategory: string(c.AgeCategory),
		Injured:     c.Injured,
		Description: c.Description,
		Address:     c.Address,
		ReportedAt:  c.ReportedAt,
		ReporterID:  c.ReporterID.String(),
		Claimed:     c.Claimed,
		Resolved:    c.Resolved,
	}
	if c.ClaimantID != nil {
		resp.ClaimantID = c.ClaimantID.String()
	}
	return resp
}

// FromCases converts a list of cases, never returning nil so the JSON
// encoding is an empty array rather than null.
func FromCases(cases []*models.Case) []*CaseResponse {
	out := make([]*CaseResponse, 0, len(cases))
	for _, c := range cases {
		out = append(out, FromCase(c))
	}
	return out
}

// MessageResponse is the HTTP representation of a conversation message.
type MessageResponse struct {
	Seq        int64     `json:"seq"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sent_at"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
}

// FromMessage converts a domain message to its HTTP representation.
func FromMessage(m models.Message) *MessageResponse {
	return &MessageResponse{
		Seq:        m.Seq,
		Text:       m.Text,
		SentAt:     m.SentAt,
		SenderName: m.SenderName,
		SenderRole: string(m.SenderRole),
	}
}

// FromMessages converts a conversation log, never returning nil.
func FromMessages(msgs []models.Message) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromMessage(m))
	}
	return out
}
