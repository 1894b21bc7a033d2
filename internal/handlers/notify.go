// internal/handlers/notify.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"lead-enrichment-worker/internal/domain"
)

// NewNotifySuccess returns the handler for the notify-success topic.
func NewNotifySuccess(logger *slog.Logger) domain.Handler {
	logger = logger.With("handler", TopicNotifySuccess)

	return func(ctx context.Context, task *domain.Task) (domain.Variables, error) {
		leadName := task.Variables.String("leadName")

		// TODO: wire a real notification channel once one exists; for
		// now the structured log line is the notification.
		logger.Info("lead enrichment completed", "lead_name", leadName, "process_instance_key", task.ProcessInstanceKey)

		return domain.Variables{
			"notificationSent": true,
			"message":          fmt.Sprintf("Lead enrichment completed for %s", leadName),
		}, nil
	}
}
