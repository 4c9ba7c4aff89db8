// Package handlers implements the HTTP API over the transaction store and
// the reconciliation engine.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	gosync "sync"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/api/middleware"
	"github.com/dazzifederico-hub/budcal/internal/backup"
	"github.com/dazzifederico-hub/budcal/internal/calendar"
	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/dazzifederico-hub/budcal/internal/store"
	"github.com/dazzifederico-hub/budcal/internal/sync"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransactionsHandler handles the transaction CRUD endpoints.
type TransactionsHandler struct {
	store store.TransactionStore
	log   zerolog.Logger
}

// NewTransactionsHandler creates a transactions handler.
func NewTransactionsHandler(st store.TransactionStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: st, log: log}
}

// transactionRequest is the body for creating or editing a transaction.
type transactionRequest struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        domain.Kind     `json:"kind"`
	Description string          `json:"description"`
}

func (req *transactionRequest) validate() (time.Time, error) {
	if req.Kind != domain.KindIncome && req.Kind != domain.KindExpense {
		return time.Time{}, errors.New("kind must be income or expense")
	}
	if req.Amount.Sign() <= 0 {
		return time.Time{}, errors.New("amount must be positive")
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		date, err = time.Parse("2006-01-02", req.Date)
	}
	if err != nil {
		return time.Time{}, errors.New("date must be RFC3339 or YYYY-MM-DD")
	}
	return date, nil
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.store.GetAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
		"summary":      domain.Summarize(txs),
	})
}

// Create handles POST /api/transactions. Created transactions are always
// manual; derived ones only ever come from a sync run.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	date, err := req.validate()
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Description: req.Description,
		Origin:      domain.OriginManual,
	}

	if _, err := h.store.Put(r.Context(), tx); err != nil {
		h.log.Error().Err(err).Msg("Failed to create transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.log.Info().Str("transaction_id", tx.ID).Msg("Created manual transaction")
	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// Update handles PUT /api/transactions/{id}. Editing a calendar-derived
// transaction converts it to manual while keeping its ID and external event
// ID, which pins the source event against re-derivation on the next sync.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to load transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transaction")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	date, err := req.validate()
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing.Date = date
	existing.Amount = req.Amount
	existing.Kind = req.Kind
	existing.Description = req.Description
	existing.Origin = domain.OriginManual

	if _, err := h.store.Put(r.Context(), existing); err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	h.log.Info().Str("transaction_id", id).Msg("Updated transaction (now manual)")
	middleware.WriteJSON(w, http.StatusOK, existing)
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// SyncHandler handles the sync and diagnostics endpoints.
type SyncHandler struct {
	engine *sync.Engine
	window calendar.Window
	log    zerolog.Logger

	// busy enforces the single-writer rule: only one sync may run at a time.
	busy gosync.Mutex
}

// NewSyncHandler creates a sync handler around the engine. The zero window
// lets the engine apply its one-year default.
func NewSyncHandler(engine *sync.Engine, window calendar.Window, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{engine: engine, window: window, log: log}
}

// Trigger handles POST /api/sync. Returns 409 when a sync is already running.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.busy.TryLock() {
		middleware.WriteError(w, http.StatusConflict, "A sync is already running")
		return
	}
	defer h.busy.Unlock()

	dryRun := r.URL.Query().Get("dry_run") == "true"

	report, err := h.engine.Sync(r.Context(), h.window, dryRun)
	if err != nil {
		h.log.Error().Err(err).Msg("Sync failed")
		middleware.WriteError(w, http.StatusBadGateway, "Sync failed: "+err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

// Diagnostics handles GET /api/diagnostics.
func (h *SyncHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	diags, err := h.engine.Diagnose(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Diagnostics failed")
		middleware.WriteError(w, http.StatusBadGateway, "Diagnostics failed: "+err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"calendars": diags,
		"count":     len(diags),
	})
}

// BackupHandler handles ledger export and restore.
type BackupHandler struct {
	store store.TransactionStore
	log   zerolog.Logger
}

// NewBackupHandler creates a backup handler.
func NewBackupHandler(st store.TransactionStore, log zerolog.Logger) *BackupHandler {
	return &BackupHandler{store: st, log: log}
}

// Export handles GET /api/backup.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="budcal-backup.json"`)
	if err := backup.Export(r.Context(), h.store, w); err != nil {
		h.log.Error().Err(err).Msg("Backup export failed")
	}
}

// Restore handles POST /api/restore.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	count, err := backup.Import(r.Context(), h.store, r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("Backup restore failed")
		middleware.WriteError(w, http.StatusBadRequest, "Restore failed: "+err.Error())
		return
	}

	h.log.Info().Int("restored", count).Msg("Ledger restored from backup")
	middleware.WriteJSON(w, http.StatusOK, map[string]int{"restored": count})
}
