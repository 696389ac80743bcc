// Package handlers implements the HTTP surface of the ledger API. All
// mutations go through the ledger engine against a single cached snapshot;
// persistence of the updated blob happens asynchronously via the job queue.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sevencollector/fintracker/internal/advisor"
	"github.com/sevencollector/fintracker/internal/analytics"
	"github.com/sevencollector/fintracker/internal/api/middleware"
	"github.com/sevencollector/fintracker/internal/jobs"
	"github.com/sevencollector/fintracker/internal/ledger"
	"github.com/sevencollector/fintracker/internal/onboarding"
	"github.com/sevencollector/fintracker/internal/store"
)

// LedgerHandler owns the in-memory snapshot and serializes access to it. The
// snapshot is loaded lazily on first use and written back through the persist
// queue after every mutation.
type LedgerHandler struct {
	store     store.SnapshotStore
	engine    *ledger.Engine
	publisher jobs.Publisher
	advisor   advisor.Service // nil when no API key is configured
	slot      string
	log       zerolog.Logger

	mu   sync.Mutex
	snap *ledger.Snapshot
}

// NewLedgerHandler creates the handler. advisorSvc may be nil; the insight
// endpoints then answer 503.
func NewLedgerHandler(st store.SnapshotStore, engine *ledger.Engine, publisher jobs.Publisher, advisorSvc advisor.Service, slot string, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		store:     st,
		engine:    engine,
		publisher: publisher,
		advisor:   advisorSvc,
		slot:      slot,
		log:       log,
	}
}

// currentLocked returns the cached snapshot, loading it from the store on
// first call. Callers must hold h.mu.
func (h *LedgerHandler) currentLocked(r *http.Request) (*ledger.Snapshot, error) {
	if h.snap != nil {
		return h.snap, nil
	}
	snap, err := h.store.Load(r.Context())
	if err != nil {
		return nil, err
	}
	h.snap = snap
	return snap, nil
}

// persistLocked serializes the snapshot and enqueues a save job, returning
// the job id. Callers must hold h.mu. A publish failure is logged but does
// not fail the request; the mutation already happened.
func (h *LedgerHandler) persistLocked(r *http.Request) string {
	data, err := h.snap.Encode()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode snapshot for persistence")
		return ""
	}

	job := &jobs.PersistSnapshotJob{
		Slot:    h.slot,
		Payload: string(data),
	}
	if err := h.publisher.PublishPersistSnapshot(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue persist job")
		return ""
	}
	return job.JobID
}

// GetSnapshot handles GET /api/snapshot
func (h *LedgerHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.currentLocked(r)
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet, complete onboarding first")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, snap)
}

// CreateSnapshot handles POST /api/snapshot: the onboarding flow.
func (h *LedgerHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Age     int     `json:"age"`
		Gender  string  `json:"gender"`
		Income  float64 `json:"income"`
		Savings float64 `json:"savings"`
		TaxRate float64 `json:"taxRate"`

		Categories []string `json:"categories"`
		Goals      []struct {
			Name  string  `json:"name"`
			Total float64 `json:"total"`
		} `json:"goals"`

		SuggestLimits bool `json:"suggestLimits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Income < 0 || req.Savings < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Income and savings must be non-negative")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Onboarding happens once; an existing snapshot is never overwritten.
	if _, err := h.currentLocked(r); err == nil {
		middleware.WriteError(w, http.StatusConflict, "Snapshot already exists")
		return
	} else if !errors.Is(err, store.ErrNoSnapshot) {
		h.log.Error().Err(err).Msg("Failed to check for existing snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	b := &onboarding.Builder{
		Name:    req.Name,
		Age:     req.Age,
		Gender:  req.Gender,
		Income:  req.Income,
		Savings: req.Savings,
		TaxRate: req.TaxRate,
	}
	categories := req.Categories
	if len(categories) == 0 {
		categories = onboarding.PredefinedCategories
	}
	for _, name := range categories {
		b.AddCategory(name)
	}
	for _, g := range req.Goals {
		b.AddGoal(g.Name, g.Total)
	}

	if req.SuggestLimits && h.advisor != nil {
		b.SuggestLimits(r.Context(), h.advisor)
	}

	h.snap = b.Build()
	jobID := h.persistLocked(r)

	h.log.Info().Str("name", req.Name).Str("job_id", jobID).Msg("Snapshot created")

	middleware.WriteJSON(w, http.StatusCreated, h.snap)
}

// ListTransactions handles GET /api/transactions
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.currentLocked(r)
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	txs := snap.Transactions
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// SubmitTransaction handles POST /api/transactions: both new submissions and
// edits, distinguished by editingId in the body.
func (h *LedgerHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string `json:"type"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Goal        string `json:"goal"`
		DateMillis  int64  `json:"dateMillis"`
		EditingID   string `json:"editingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form := ledger.NewFormState()
	form.Type = ledger.TransactionType(req.Type)
	form.Amount = req.Amount
	form.Description = req.Description
	form.Category = req.Category
	form.Goal = req.Goal
	if req.DateMillis != 0 {
		form.DateMillis = req.DateMillis
	}
	if req.EditingID != "" {
		form.Editing = true
		form.EditingID = req.EditingID
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.currentLocked(r)
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	tx := h.engine.Apply(snap, form.Intent(snap))
	jobID := h.persistLocked(r)

	h.log.Info().
		Str("transaction_id", tx.ID).
		Str("type", req.Type).
		Float64("amount", tx.Amount).
		Bool("edit", form.Editing).
		Msg("Transaction applied")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"transaction": tx,
		"balance":     snap.Balance,
		"job_id":      jobID,
	})
}

// GenerateInsight handles POST /api/insight
func (h *LedgerHandler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Advisor is not configured")
		return
	}

	h.mu.Lock()
	snap, err := h.currentLocked(r)
	h.mu.Unlock()
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	message := h.advisor.GenerateInsight(r.Context(), snap)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// Chat handles POST /api/insight/chat
func (h *LedgerHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Advisor is not configured")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply := h.advisor.Chat(r.Context(), req.Message)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": reply})
}

// SuggestLimits handles POST /api/limits: asks the advisor for per-category
// limits and adopts any suggestion into the snapshot.
func (h *LedgerHandler) SuggestLimits(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Advisor is not configured")
		return
	}

	var req struct {
		Age     int     `json:"age"`
		Gender  string  `json:"gender"`
		Income  float64 `json:"income"`
		Savings float64 `json:"savings"`
		TaxRate float64 `json:"taxRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.currentLocked(r)
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	suggested := h.advisor.GenerateLimits(r.Context(), snap.Categories, advisor.Profile{
		Age:           req.Age,
		Gender:        req.Gender,
		MonthlyIncome: req.Income,
		MonthlySaving: req.Savings,
		TaxRate:       req.TaxRate,
	})
	if len(suggested) == 0 {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"categories": snap.Categories,
			"updated":    false,
		})
		return
	}

	snap.Categories = suggested
	jobID := h.persistLocked(r)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": snap.Categories,
		"updated":    true,
		"job_id":     jobID,
	})
}

// AnalyticsHandler triggers a BigQuery export of the persisted snapshot. It
// reads from the store rather than the in-memory state so the export reflects
// what has actually been saved.
type AnalyticsHandler struct {
	store    store.SnapshotStore
	exporter *analytics.Exporter // nil when BigQuery is not configured
	log      zerolog.Logger
}

func NewAnalyticsHandler(st store.SnapshotStore, exporter *analytics.Exporter, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:    st,
		exporter: exporter,
		log:      log,
	}
}

// Export handles POST /api/export
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "BigQuery export is not configured")
		return
	}

	snap, err := h.store.Load(r.Context())
	if errors.Is(err, store.ErrNoSnapshot) {
		middleware.WriteError(w, http.StatusNotFound, "No snapshot yet")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load snapshot for export")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}

	if err := h.exporter.ExportSnapshot(r.Context(), snap); err != nil {
		h.log.Error().Err(err).Msg("Export failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exported": len(snap.Transactions),
	})
}

// JobsHandler exposes the persist queue's job records.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Slot:   query.Get("slot"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
