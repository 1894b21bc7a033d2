// internal/infra/memory/lead_repository.go
package memory

import (
	"context"
	"sort"
	"sync"

	"lead-enrichment-worker/internal/domain"
)

type leadRepository struct {
	mu    sync.RWMutex
	leads map[string]*domain.Lead
}

// NewLeadRepository creates an in-memory lead repository. Used when no
// etcd endpoints are configured, and in tests.
func NewLeadRepository() domain.LeadRepository {
	return &leadRepository{
		leads: make(map[string]*domain.Lead),
	}
}

func (r *leadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}

	clone := *lead
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[lead.ID] = &clone
	return nil
}

func (r *leadRepository) Get(ctx context.Context, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	clone := *lead
	return &clone, nil
}

func (r *leadRepository) List(ctx context.Context) ([]*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leads := make([]*domain.Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		clone := *lead
		leads = append(leads, &clone)
	}
	sort.Slice(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}
