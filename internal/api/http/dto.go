package http

import (
	"lead-enrichment-worker/internal/domain"
)

// CreateLeadRequest is the Data Transfer Object for submitting a lead.
type CreateLeadRequest struct {
	LeadName string `json:"leadName" validate:"required,min=1,max=256"`
	Email    string `json:"email" validate:"omitempty,email"`
	Company  string `json:"company" validate:"omitempty,max=256"`
}

// ToVariables converts the request into the variables the
// lead-enrichment process is started with.
func (r *CreateLeadRequest) ToVariables() domain.Variables {
	return domain.Variables{
		"leadName": r.LeadName,
		"email":    r.Email,
		"company":  r.Company,
	}
}

// WebhookRequest is the payload posted by the external form provider.
// The lead fields arrive nested under data.
type WebhookRequest struct {
	Data map[string]any `json:"data" validate:"required,min=1"`
}

// CreateLeadResponse is returned after a process instance was started.
type CreateLeadResponse struct {
	Message           string `json:"message"`
	ProcessInstanceID string `json:"processInstanceId"`
	Status            string `json:"status"`
}

// LeadStatusResponse reports the state of one lead.
type LeadStatusResponse struct {
	ProcessID string            `json:"processId"`
	Status    domain.LeadStatus `json:"status"`
	Lead      *domain.Lead      `json:"lead,omitempty"`
}
