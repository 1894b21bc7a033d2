// internal/handlers/store.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"lead-enrichment-worker/internal/domain"

	"github.com/google/uuid"
)

// NewStoreLead returns the handler for the store-lead topic. It is the
// one handler with a real side effect: persisting the enriched lead.
// A repository failure fails the task so the engine redelivers it.
func NewStoreLead(leads domain.LeadRepository, logger *slog.Logger) domain.Handler {
	logger = logger.With("handler", TopicStoreLead)

	return func(ctx context.Context, task *domain.Task) (domain.Variables, error) {
		now := time.Now()
		lead := &domain.Lead{
			ID:           leadID(task),
			Name:         task.Variables.String("leadName"),
			Email:        task.Variables.String("email"),
			Company:      task.Variables.String("company"),
			Status:       domain.LeadStatusStored,
			EnrichedData: task.Variables.Map("enrichedData"),
			LinkedinData: task.Variables.Map("linkedinData"),
			CompanyData:  task.Variables.Map("companyData"),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		// Keep the intake timestamp when the API already created the record.
		if existing, err := leads.Get(ctx, lead.ID); err == nil {
			lead.CreatedAt = existing.CreatedAt
		}

		if err := leads.Save(ctx, lead); err != nil {
			return nil, fmt.Errorf("failed to store lead %s: %w", lead.ID, err)
		}

		logger.Info("stored enriched lead", "lead_id", lead.ID, "lead_name", lead.Name)

		return domain.Variables{
			"storageSuccess": true,
			"leadId":         lead.ID,
		}, nil
	}
}

// leadID correlates the stored lead with the process run that produced
// it; tasks delivered outside a process (tests, replays) get a uuid.
func leadID(task *domain.Task) string {
	if task.ProcessInstanceKey != 0 {
		return strconv.FormatInt(task.ProcessInstanceKey, 10)
	}
	return uuid.NewString()
}
