// Package handlers contains the task handlers for the lead-enrichment
// process, one per external-task topic.
package handlers

import (
	"log/slog"

	"lead-enrichment-worker/internal/dispatcher"
	"lead-enrichment-worker/internal/domain"
)

// Topic names, matching the service task types in the lead-enrichment
// process definition.
const (
	TopicValidateLead  = "validate-lead"
	TopicEnrichLead    = "lead-enrichment"
	TopicStoreLead     = "store-lead"
	TopicNotifySuccess = "notify-success"
)

// Register subscribes all lead handlers on the dispatcher.
func Register(d *dispatcher.Dispatcher, leads domain.LeadRepository, logger *slog.Logger) error {
	subscriptions := map[string]domain.Handler{
		TopicValidateLead:  NewValidateLead(logger),
		TopicEnrichLead:    NewEnrichLead(logger),
		TopicStoreLead:     NewStoreLead(leads, logger),
		TopicNotifySuccess: NewNotifySuccess(logger),
	}

	for topic, handler := range subscriptions {
		if err := d.Subscribe(topic, handler); err != nil {
			return err
		}
	}
	return nil
}
