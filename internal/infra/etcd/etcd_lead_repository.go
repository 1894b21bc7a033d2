// internal/infra/etcd/etcd_lead_repository.go
package etcd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"lead-enrichment-worker/internal/domain"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	LeadSaveDir = "/lead-enrichment/leads/"
)

type etcdLeadRepository struct {
	client *clientv3.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEtcdLeadRepository creates a repository for leads backed by etcd.
func NewEtcdLeadRepository(client *clientv3.Client, logger *slog.Logger) domain.LeadRepository {
	return &etcdLeadRepository{
		client: client,
		logger: logger,
		tracer: otel.Tracer("lead-enrichment-etcd-repo"),
	}
}

// Save persists the Lead struct to etcd.
func (r *etcdLeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Save")
	defer span.End()

	if err := lead.Validate(); err != nil {
		return err
	}

	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to marshal lead to JSON: %w", err)
	}

	key := path.Join(LeadSaveDir, lead.ID)
	span.SetAttributes(
		attribute.String("lead.id", lead.ID),
		attribute.String("etcd.key", key),
	)

	_, err = r.client.Put(ctx, key, string(leadJSON))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to put lead to etcd")
		return fmt.Errorf("failed to save lead %s to etcd: %w", lead.ID, err)
	}
	return nil
}

// Get retrieves a lead from etcd.
func (r *etcdLeadRepository) Get(ctx context.Context, id string) (*domain.Lead, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.Get")
	defer span.End()
	span.SetAttributes(attribute.String("lead.id", id))

	key := path.Join(LeadSaveDir, id)
	resp, err := r.client.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get lead from etcd")
		return nil, fmt.Errorf("failed to get lead %s from etcd: %w", id, err)
	}

	if len(resp.Kvs) == 0 {
		return nil, domain.ErrLeadNotFound
	}

	var lead domain.Lead
	if err := json.Unmarshal(resp.Kvs[0].Value, &lead); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lead %s from JSON: %w", id, err)
	}
	return &lead, nil
}

// List retrieves all leads from etcd.
func (r *etcdLeadRepository) List(ctx context.Context) ([]*domain.Lead, error) {
	ctx, span := r.tracer.Start(ctx, "repo.etcd.List")
	defer span.End()

	resp, err := r.client.Get(ctx, LeadSaveDir, clientv3.WithPrefix())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list leads from etcd")
		return nil, fmt.Errorf("failed to list leads from etcd: %w", err)
	}
	span.SetAttributes(attribute.Int("etcd.kv_count", len(resp.Kvs)))

	leads := make([]*domain.Lead, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var lead domain.Lead
		if err := json.Unmarshal(kv.Value, &lead); err != nil {
			r.logger.Warn("failed to unmarshal lead from etcd", "key", string(kv.Key), "error", err)
			continue
		}
		leads = append(leads, &lead)
	}
	return leads, nil
}
