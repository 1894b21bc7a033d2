package memory

import (
	"context"
	"testing"
	"time"

	"lead-enrichment-worker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewLeadRepository()
	ctx := context.Background()

	lead := &domain.Lead{
		ID:        "2251799813685249",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Company:   "Acme",
		Status:    domain.LeadStatusProcessing,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, lead))

	got, err := repo.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Name, got.Name)
	assert.Equal(t, domain.LeadStatusProcessing, got.Status)

	// Mutating the returned copy must not leak into the store.
	got.Status = domain.LeadStatusStored
	again, err := repo.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusProcessing, again.Status)
}

func TestGetUnknownLead(t *testing.T) {
	repo := NewLeadRepository()
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrLeadNotFound)
}

func TestSaveInvalidLead(t *testing.T) {
	repo := NewLeadRepository()
	err := repo.Save(context.Background(), &domain.Lead{ID: "x", Status: domain.LeadStatusProcessing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestListNewestFirst(t *testing.T) {
	repo := NewLeadRepository()
	ctx := context.Background()

	base := time.Now()
	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Save(ctx, &domain.Lead{
			ID:        name,
			Name:      name,
			Status:    domain.LeadStatusStored,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "third", leads[0].Name)
	assert.Equal(t, "first", leads[2].Name)
}
