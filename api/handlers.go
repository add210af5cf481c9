/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the budget lifecycle engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine
  service. The engine itself is context-free: actor identifiers arrive as
  explicit request fields, never from ambient state.

ENDPOINTS:
  Budgets:
    GET    /api/budgets                   List budgets (optional ?organization_id=)
    POST   /api/budgets                   Create budget
    GET    /api/budgets/{id}              Get budget
    DELETE /api/budgets/{id}              Archive budget (soft delete)
    POST   /api/budgets/{id}/approve      Record an approval vote
    POST   /api/budgets/{id}/reject       Veto a pending budget
    POST   /api/budgets/{id}/fund         Fund from a cash/bank account
    POST   /api/budgets/{id}/spend        Record an external debit
    POST   /api/budgets/{id}/advance      Advance the recurrence chain
    GET    /api/budgets/{id}/postings     Postings emitted for the budget

  Accounts:
    GET    /api/accounts                  Account directory
    POST   /api/accounts                  Create/update account

  Admin:
    POST   /api/admin/sweep               Run the recurrence sweep now

ERROR HANDLING:
  Engine errors map to HTTP status via the budget error helpers:
  - 400: client rule breaches (invalid state, invariant violation, ...)
  - 404: budget/account not found
  - 409: concurrent modification
  - 500: everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: The cron-driven sweep behind /api/admin/sweep
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/budget-engine/budget"
)

// PostingLister lists the postings emitted for a budget. Implemented by both
// stores; the interface keeps handlers testable against memory.
type PostingLister interface {
	PostingsForBudget(ctx context.Context, budgetID budget.BudgetID) ([]budget.Posting, error)
}

// AccountStore is the directory maintenance surface behind /api/accounts.
type AccountStore interface {
	budget.AccountDirectory
	SaveAccount(ctx context.Context, ref budget.AccountRef) error
	ListAccounts(ctx context.Context) ([]budget.AccountRef, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *budget.Service
	Accounts AccountStore
	Postings PostingLister
	Sweeper  *Sweeper
}

// NewHandler creates a handler around the engine service.
func NewHandler(svc *budget.Service, accounts AccountStore, postings PostingLister) *Handler {
	return &Handler{Service: svc, Accounts: accounts, Postings: postings}
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// ListBudgets returns budgets, optionally filtered by organization.
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.Service.Budgets.List(r.Context(), r.URL.Query().Get("organization_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if budgets == nil {
		budgets = []budget.Budget{}
	}
	writeJSON(w, http.StatusOK, toBudgetDTOs(budgets))
}

// GetBudget returns a single budget snapshot.
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))
	b, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// CreateBudget creates a new pending budget.
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	total, err := budget.NewMoneyFromString(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
		return
	}
	available := budget.Zero()
	if req.AvailableAmount != "" {
		if available, err = budget.NewMoneyFromString(req.AvailableAmount); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid available_amount", err)
			return
		}
	}
	start, err := budget.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := budget.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	in := budget.NewBudgetInput{
		ID:                  budget.BudgetID(req.ID),
		OrganizationID:      req.OrganizationID,
		BranchID:            req.BranchID,
		Name:                req.Name,
		TotalAmount:         total,
		AvailableAmount:     available,
		StartDate:           start,
		EndDate:             end,
		ApprovalRequirement: budget.ApprovalRequirement(req.ApprovalRequirement),
		RequiredApprovals:   req.RequiredApprovals,
		BudgetedAccountID:   budget.AccountID(req.BudgetedAccountID),
		RecurrenceType:      budget.RecurrenceType(req.RecurrenceType),
		RecurrenceInterval:  req.RecurrenceInterval,
	}
	for _, id := range req.ApproverIDs {
		in.ApproverIDs = append(in.ApproverIDs, budget.ApproverID(id))
	}
	for _, p := range req.Policies {
		in.Policies = append(in.Policies, budget.PolicyDocument{Name: p.Name, Status: p.Status})
	}
	if req.RecurrenceEndDate != nil {
		d, err := budget.ParseDate(*req.RecurrenceEndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid recurrence_end_date", err)
			return
		}
		in.RecurrenceEndDate = &d
	}

	b, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetDTO(*b))
}

// ApproveBudget records one approver's yes-vote.
// POST /api/budgets/{id}/approve
func (h *Handler) ApproveBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ApproverID == "" {
		writeError(w, http.StatusBadRequest, "approver_id is required", nil)
		return
	}

	b, err := h.Service.RecordApproval(r.Context(), id, budget.ApproverID(req.ApproverID))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// RejectBudget vetoes a pending budget.
// POST /api/budgets/{id}/reject
func (h *Handler) RejectBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ApproverID == "" {
		writeError(w, http.StatusBadRequest, "approver_id is required", nil)
		return
	}

	b, err := h.Service.Reject(r.Context(), id, budget.ApproverID(req.ApproverID), req.Reason)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// ArchiveBudget soft-deletes a budget.
// DELETE /api/budgets/{id}
func (h *Handler) ArchiveBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	b, err := h.Service.Archive(r.Context(), id, r.Header.Get("X-Actor-ID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// FundBudget applies a funding transaction.
// POST /api/budgets/{id}/fund
func (h *Handler) FundBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	var req FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := budget.NewMoneyFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if req.IdempotencyKey == "" {
		writeError(w, http.StatusBadRequest, "idempotency_key is required", nil)
		return
	}

	b, err := h.Service.Fund(r.Context(), id, amount,
		budget.AccountID(req.CashOrBankAccountID),
		budget.AccountID(req.BudgetFundingEquityAccountID),
		req.IdempotencyKey)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// SpendBudget records an externally originated debit.
// POST /api/budgets/{id}/spend
func (h *Handler) SpendBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	var req SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := budget.NewMoneyFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	b, err := h.Service.RecordSpend(r.Context(), id, amount, req.Reference)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetDTO(*b))
}

// AdvanceBudget advances the recurrence chain rooted at the budget.
// POST /api/budgets/{id}/advance
func (h *Handler) AdvanceBudget(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	var req AdvanceRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	asOf := budget.Today()
	if req.AsOf != "" {
		var err error
		if asOf, err = budget.ParseDate(req.AsOf); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
			return
		}
	}

	successor, err := h.Service.AdvanceRecurrence(r.Context(), id, asOf)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if successor == nil {
		// Nothing due: period not ended, chain exhausted, or already spawned.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetDTO(*successor))
}

// GetPostings returns the postings emitted for a budget.
// GET /api/budgets/{id}/postings
func (h *Handler) GetPostings(w http.ResponseWriter, r *http.Request) {
	id := budget.BudgetID(chi.URLParam(r, "id"))

	if _, err := h.Service.Get(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	postings, err := h.Postings.PostingsForBudget(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if postings == nil {
		postings = []budget.Posting{}
	}
	writeJSON(w, http.StatusOK, toPostingDTOs(postings))
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns the account directory.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.ListAccounts(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = AccountDTO{ID: string(a.ID), Name: a.Name, Type: a.Type, Active: a.Active}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveAccount creates or updates an account directory entry.
func (h *Handler) SaveAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	ref := budget.AccountRef{
		ID:     budget.AccountID(req.ID),
		Name:   req.Name,
		Type:   req.Type,
		Active: req.Active,
	}
	if err := h.Accounts.SaveAccount(r.Context(), ref); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// TriggerSweep runs the recurrence sweep immediately.
// POST /api/admin/sweep
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.Sweeper == nil {
		writeError(w, http.StatusServiceUnavailable, "Sweeper not configured", nil)
		return
	}
	result := h.Sweeper.RunNow(r.Context())
	writeJSON(w, http.StatusOK, SweepResultDTO{
		Spawned: result.Spawned,
		Skipped: result.Skipped,
		Errors:  result.Errors,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error kinds to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case budget.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, budget.ErrConcurrentModification),
		errors.Is(err, budget.ErrDuplicateIdempotencyKey):
		writeError(w, http.StatusConflict, "Conflict, retry with fresh state", err)
	case budget.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Request violates budget rules", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
