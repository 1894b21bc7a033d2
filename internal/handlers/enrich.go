// internal/handlers/enrich.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lead-enrichment-worker/internal/domain"
)

// NewEnrichLead returns the handler for the lead-enrichment topic. The
// enrichment itself is synthesized from the lead data; plugging in a
// real provider only changes this handler, not the dispatch contract.
func NewEnrichLead(logger *slog.Logger) domain.Handler {
	logger = logger.With("handler", TopicEnrichLead)

	return func(ctx context.Context, task *domain.Task) (domain.Variables, error) {
		leadName := task.Variables.String("leadName")
		company := task.Variables.String("company")

		if leadName == "" {
			return nil, fmt.Errorf("cannot enrich lead without leadName")
		}

		logger.Info("enriching lead", "lead_name", leadName, "company", company)

		enrichedData := domain.Variables{
			"insights": fmt.Sprintf("Lead %s shows high potential in %s", leadName, company),
			"score":    85,
		}
		linkedinData := domain.Variables{
			"profile":     "linkedin.com/in/" + profileSlug(leadName),
			"connections": 500,
		}
		companyData := domain.Variables{
			"name":     company,
			"industry": "Technology",
			"size":     "50-200 employees",
		}

		return domain.Variables{
			"enrichedData": enrichedData,
			"linkedinData": linkedinData,
			"companyData":  companyData,
		}, nil
	}
}

func profileSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
