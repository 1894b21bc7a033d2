package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/infra/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookToken = "9024e879-8547-49d1-8a9a-4487e3184f9f"

// fakeStarter records started process instances.
type fakeStarter struct {
	started []domain.Variables
	key     int64
	err     error
}

func (s *fakeStarter) StartProcess(ctx context.Context, bpmnProcessID string, vars domain.Variables) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.started = append(s.started, vars)
	s.key++
	return s.key, nil
}

func newTestHandler(starter *fakeStarter, leads domain.LeadRepository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewLeadHandler(starter, leads, "lead-enrichment", testWebhookToken, logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func TestCreateLeadStartsProcess(t *testing.T) {
	starter := &fakeStarter{}
	leads := memory.NewLeadRepository()
	handler := newTestHandler(starter, leads)

	body := `{"leadName": "Jane Doe", "email": "jane@example.com", "company": "Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp CreateLeadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "1", resp.ProcessInstanceID)
	assert.Equal(t, "processing", resp.Status)

	require.Len(t, starter.started, 1)
	assert.Equal(t, domain.Variables{
		"leadName": "Jane Doe",
		"email":    "jane@example.com",
		"company":  "Acme",
	}, starter.started[0])

	// The lead is queryable immediately.
	lead, err := leads.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusProcessing, lead.Status)
}

func TestCreateLeadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing lead name", `{"email": "jane@example.com"}`},
		{"invalid email", `{"leadName": "Jane", "email": "nope"}`},
		{"malformed json", `{"leadName": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			starter := &fakeStarter{}
			handler := newTestHandler(starter, memory.NewLeadRepository())

			req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, starter.started)
		})
	}
}

func TestCreateLeadStarterFailure(t *testing.T) {
	starter := &fakeStarter{err: errors.New("gateway unavailable")}
	handler := newTestHandler(starter, memory.NewLeadRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{"leadName": "Jane"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWebhookStartsProcess(t *testing.T) {
	starter := &fakeStarter{}
	handler := newTestHandler(starter, memory.NewLeadRepository())

	body := `{"data": {"leadName": "Jane Doe", "company": "Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/"+testWebhookToken, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, starter.started, 1)
	assert.Equal(t, "Jane Doe", starter.started[0].String("leadName"))
}

func TestWebhookRejectsUnknownToken(t *testing.T) {
	starter := &fakeStarter{}
	handler := newTestHandler(starter, memory.NewLeadRepository())

	req := httptest.NewRequest(http.MethodPost, "/webhook/wrong-token", strings.NewReader(`{"data": {"leadName": "x"}}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, starter.started)
}

func TestWebhookRejectsEmptyPayload(t *testing.T) {
	starter := &fakeStarter{}
	handler := newTestHandler(starter, memory.NewLeadRepository())

	req := httptest.NewRequest(http.MethodPost, "/webhook/"+testWebhookToken, strings.NewReader(`{"data": {}}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, starter.started)
}

func TestGetLeadStatus(t *testing.T) {
	leads := memory.NewLeadRepository()
	require.NoError(t, leads.Save(context.Background(), &domain.Lead{
		ID:        "41",
		Name:      "Jane Doe",
		Status:    domain.LeadStatusStored,
		CreatedAt: time.Now(),
	}))
	handler := newTestHandler(&fakeStarter{}, leads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/41", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LeadStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "41", resp.ProcessID)
	assert.Equal(t, domain.LeadStatusStored, resp.Status)
	require.NotNil(t, resp.Lead)
	assert.Equal(t, "Jane Doe", resp.Lead.Name)
}

func TestGetLeadStatusNotFound(t *testing.T) {
	handler := newTestHandler(&fakeStarter{}, memory.NewLeadRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/leads/9999", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeads(t *testing.T) {
	leads := memory.NewLeadRepository()
	for _, id := range []string{"1", "2"} {
		require.NoError(t, leads.Save(context.Background(), &domain.Lead{
			ID:        id,
			Name:      "Lead " + id,
			Status:    domain.LeadStatusProcessing,
			CreatedAt: time.Now(),
		}))
	}
	handler := newTestHandler(&fakeStarter{}, leads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var listed []*domain.Lead
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&listed))
	assert.Len(t, listed, 2)
}
