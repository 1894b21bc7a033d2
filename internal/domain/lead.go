package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLeadNotFound is a sentinel error returned when a lead is not found.
var ErrLeadNotFound = errors.New("lead not found")

// LeadStatus tracks a lead through the enrichment process.
type LeadStatus string

const (
	LeadStatusProcessing LeadStatus = "processing"
	LeadStatusStored     LeadStatus = "stored"
)

// Lead is the business record flowing through the lead-enrichment
// process. The ID is the process instance key of the run that produced
// it, so API clients can look a lead up by the key they got back when
// starting the process.
type Lead struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Company      string     `json:"company,omitempty"`
	Status       LeadStatus `json:"status"`
	EnrichedData Variables  `json:"enriched_data,omitempty"`
	LinkedinData Variables  `json:"linkedin_data,omitempty"`
	CompanyData  Variables  `json:"company_data,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate checks if the lead record is valid.
func (l *Lead) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("lead ID cannot be empty")
	}
	if l.Name == "" {
		return fmt.Errorf("lead name cannot be empty")
	}
	if l.Status == "" {
		return fmt.Errorf("lead status cannot be empty")
	}
	return nil
}

// LeadRepository defines the interface for persisting and retrieving leads.
type LeadRepository interface {
	Save(ctx context.Context, lead *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
}
