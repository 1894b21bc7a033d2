// internal/handlers/validate.go
package handlers

import (
	"context"
	"log/slog"

	"lead-enrichment-worker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NewValidateLead returns the handler for the validate-lead topic.
// Validation problems are process data, not task failures: the handler
// completes with leadValid=false so the process can route around them.
func NewValidateLead(logger *slog.Logger) domain.Handler {
	logger = logger.With("handler", TopicValidateLead)

	return func(ctx context.Context, task *domain.Task) (domain.Variables, error) {
		leadName := task.Variables.String("leadName")
		email := task.Variables.String("email")
		company := task.Variables.String("company")

		logger.Info("validating lead", "lead_name", leadName, "email", email, "company", company)

		if leadName == "" {
			return domain.Variables{
				"leadValid":         false,
				"validationMessage": "Lead name is required",
			}, nil
		}

		if err := validate.Var(email, "omitempty,email"); err != nil {
			return domain.Variables{
				"leadValid":         false,
				"validationMessage": "Invalid email format",
			}, nil
		}

		return domain.Variables{
			"leadValid":         true,
			"validationMessage": "Lead data is valid",
		}, nil
	}
}
