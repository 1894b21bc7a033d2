// internal/api/http/lead_handler.go
package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/metrics"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LeadHandler serves the lead intake API: submitting leads, receiving
// webhooks, and reporting lead status. Each accepted submission starts
// one lead-enrichment process instance.
type LeadHandler struct {
	starter       domain.ProcessStarter
	leads         domain.LeadRepository
	bpmnProcessID string
	webhookToken  string
	logger        *slog.Logger
	validate      *validator.Validate
	tracer        trace.Tracer
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(starter domain.ProcessStarter, leads domain.LeadRepository, bpmnProcessID, webhookToken string, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{
		starter:       starter,
		leads:         leads,
		bpmnProcessID: bpmnProcessID,
		webhookToken:  webhookToken,
		logger:        logger.With("component", "lead-handler"),
		validate:      validator.New(),
		tracer:        otel.Tracer("lead-enrichment-api"),
	}
}

// A helper struct to capture the status code
type instrumentedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *instrumentedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// RegisterRoutes registers lead-related routes to the http.ServeMux.
func (h *LeadHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/leads", h.instrument("/api/leads", http.HandlerFunc(h.handleLeads)))
	mux.Handle("/api/leads/", h.instrument("/api/leads/{id}", http.HandlerFunc(h.handleLeads)))
	mux.Handle("/webhook/", h.instrument("/webhook/{token}", http.HandlerFunc(h.handleWebhook)))
}

func (h *LeadHandler) instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), "HTTP "+r.Method+" "+path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		))
		defer span.End()

		r = r.WithContext(ctx)

		iw := &instrumentedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(iw, r)

		metrics.HttpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(iw.statusCode)).Inc()

		span.SetAttributes(attribute.Int("http.status_code", iw.statusCode))
		if iw.statusCode >= 500 {
			span.SetStatus(codes.Error, "Server Error")
		}
	})
}

// handleLeads is a general dispatcher for the /api/leads path.
func (h *LeadHandler) handleLeads(w http.ResponseWriter, r *http.Request) {
	leadID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/leads"), "/")

	switch r.Method {
	case http.MethodPost:
		if leadID != "" {
			http.NotFound(w, r)
			return
		}
		h.handleCreateLead(w, r)
	case http.MethodGet:
		if leadID == "" {
			h.handleListLeads(w, r)
			return
		}
		h.handleGetLead(w, r, leadID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCreateLead validates the submission and starts a process instance.
func (h *LeadHandler) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.CreateLead")
	defer span.End()

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Failed to decode request body")
		span.RecordError(err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		span.RecordError(err)
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors,
				"Field '"+err.Field()+"' failed on the '"+err.Tag()+"' tag.",
			)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   "Validation failed",
			"details": validationErrors,
		})
		return
	}

	span.SetAttributes(attribute.String("lead.name", req.LeadName))
	h.startInstance(ctx, w, "api", req.ToVariables())
}

// handleWebhook starts a process instance from an external form payload.
func (h *LeadHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.Webhook")
	defer span.End()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := strings.Trim(strings.TrimPrefix(r.URL.Path, "/webhook"), "/")
	if h.webhookToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
		span.SetStatus(codes.Error, "Unknown webhook token")
		http.NotFound(w, r)
		return
	}

	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "Failed to decode webhook body")
		span.RecordError(err)
		http.Error(w, "Expected JSON data", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		span.SetStatus(codes.Error, "No data in webhook payload")
		http.Error(w, "No data found in webhook payload", http.StatusBadRequest)
		return
	}

	h.startInstance(ctx, w, "webhook", domain.Variables(req.Data))
}

func (h *LeadHandler) startInstance(ctx context.Context, w http.ResponseWriter, source string, vars domain.Variables) {
	key, err := h.starter.StartProcess(ctx, h.bpmnProcessID, vars)
	if err != nil {
		metrics.ProcessInstancesStartedTotal.WithLabelValues(source, "failed").Inc()
		h.logger.Error("failed to start process instance", "source", source, "error", err)
		http.Error(w, "Failed to start lead enrichment process", http.StatusBadGateway)
		return
	}
	metrics.ProcessInstancesStartedTotal.WithLabelValues(source, "started").Inc()

	processID := strconv.FormatInt(key, 10)
	h.logger.Info("lead enrichment process started", "source", source, "process_instance_key", key)

	// Record the lead immediately so status queries work before the
	// store-lead task has run.
	now := time.Now()
	lead := &domain.Lead{
		ID:        processID,
		Name:      vars.String("leadName"),
		Email:     vars.String("email"),
		Company:   vars.String("company"),
		Status:    domain.LeadStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.leads.Save(ctx, lead); err != nil {
		h.logger.Warn("failed to record submitted lead", "process_instance_key", key, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(CreateLeadResponse{
		Message:           "Lead enrichment process started",
		ProcessInstanceID: processID,
		Status:            "processing",
	})
}

// handleGetLead reports the status of one lead (GET /api/leads/{id}).
func (h *LeadHandler) handleGetLead(w http.ResponseWriter, r *http.Request, id string) {
	ctx, span := h.tracer.Start(r.Context(), "handler.GetLead")
	defer span.End()
	span.SetAttributes(attribute.String("lead.id", id))

	lead, err := h.leads.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLeadNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get lead from repository")
		h.logger.Error("error getting lead", "lead_id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LeadStatusResponse{
		ProcessID: lead.ID,
		Status:    lead.Status,
		Lead:      lead,
	})
}

// handleListLeads lists all known leads (GET /api/leads).
func (h *LeadHandler) handleListLeads(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.ListLeads")
	defer span.End()

	leads, err := h.leads.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list leads from repository")
		h.logger.Error("error listing leads", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads)
}
